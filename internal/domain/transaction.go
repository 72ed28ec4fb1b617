package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of a transaction.
type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// IsValid checks if the type is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TypeExpense || t == TypeIncome || t == TypeTransfer
}

// Transaction is the single source of truth for account balances: every
// create, update and delete of a transaction is mirrored in the cached
// CurrentValue of the account(s) it references, inside one atomic unit.
//
// Shape rules per type:
//   - expense/income: AccountID and CategoryID set, TransferAccountID nil,
//     category kind equal to the transaction type;
//   - transfer: AccountID and TransferAccountID set and distinct,
//     CategoryID nil.
type Transaction struct {
	ID                string
	OwnerID           string
	Type              TransactionType
	Amount            decimal.Decimal
	OccurredAt        time.Time
	Settled           bool
	Note              string
	AccountID         string
	CategoryID        *string
	TransferAccountID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateShape enforces the per-type reference rules above. It is pure:
// ownership and existence of the referenced rows are checked separately,
// against the store.
func (t *Transaction) ValidateShape() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.AccountID == "" {
		return ErrMissingReference
	}

	switch t.Type {
	case TypeExpense, TypeIncome:
		if t.TransferAccountID != nil {
			return ErrUnexpectedReference
		}

		if t.CategoryID == nil || *t.CategoryID == "" {
			return ErrMissingReference
		}

	case TypeTransfer:
		if t.CategoryID != nil {
			return ErrUnexpectedReference
		}

		if t.TransferAccountID == nil || *t.TransferAccountID == "" {
			return ErrMissingReference
		}

		if *t.TransferAccountID == t.AccountID {
			return ErrInvalidTransferTarget
		}
	}

	return nil
}

// TransactionFilter narrows transaction listings. Nil fields are ignored.
type TransactionFilter struct {
	Type       *TransactionType
	AccountID  *string
	CategoryID *string
	Settled    *bool
	From       *time.Time
	To         *time.Time
}
