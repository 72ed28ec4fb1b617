package domain

import "time"

// CategoryKind tells whether a category classifies expenses or income.
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// IsValid checks if the kind is a known category kind.
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindExpense || k == CategoryKindIncome
}

// Category represents a user-defined spending or income category.
// Every transaction referencing a category must match its kind.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      CategoryKind
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesType reports whether the category may classify a transaction of
// the given type. Transfers never carry a category.
func (c *Category) MatchesType(t TransactionType) bool {
	switch t {
	case TypeExpense:
		return c.Kind == CategoryKindExpense
	case TypeIncome:
		return c.Kind == CategoryKindIncome
	default:
		return false
	}
}
