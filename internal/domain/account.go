package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank or cash account owned by a single user.
//
// CurrentValue is a cached aggregate: at rest it equals the sum of signed
// effects of every transaction referencing this account as source or
// transfer target. Only the transaction lifecycle writes it.
type Account struct {
	ID           string
	OwnerID      string
	Name         string
	CurrentValue decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
