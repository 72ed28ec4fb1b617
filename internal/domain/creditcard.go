package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard is structurally parallel to Account and participates in the
// same balance-effect model when referenced by a transaction. CurrentValue
// goes negative as the card accumulates charges.
type CreditCard struct {
	ID           string
	OwnerID      string
	Name         string
	CurrentValue decimal.Decimal
	LimitValue   decimal.Decimal
	DueDay       int
	ClosingDay   int
	Paid         bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Debt returns the outstanding amount on the card as a positive number.
func (c *CreditCard) Debt() decimal.Decimal {
	if c.CurrentValue.IsNegative() {
		return c.CurrentValue.Neg()
	}

	return decimal.Zero
}

// AvailableLimit returns the remaining spendable limit.
func (c *CreditCard) AvailableLimit() decimal.Decimal {
	return c.LimitValue.Sub(c.Debt())
}
