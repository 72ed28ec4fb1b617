package domain

import "github.com/shopspring/decimal"

// Effect is a signed balance delta attributed to one balance holder as the
// consequence of one transaction.
type Effect struct {
	AccountID string
	Delta     decimal.Decimal
}

// EffectsOf maps a transaction to the balance deltas it causes:
//
//	expense:  [(account, -amount)]
//	income:   [(account, +amount)]
//	transfer: [(account, -amount), (target, +amount)]
//
// The mapping is deterministic, so updates can reverse the stored pre-image
// by negating its effects and then apply the effects of the new image.
func EffectsOf(t *Transaction) []Effect {
	switch t.Type {
	case TypeExpense:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
	case TypeIncome:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount}}
	case TypeTransfer:
		return []Effect{
			{AccountID: t.AccountID, Delta: t.Amount.Neg()},
			{AccountID: *t.TransferAccountID, Delta: t.Amount},
		}
	default:
		return nil
	}
}

// NegatedEffects returns the reversal of the given effect list.
func NegatedEffects(effects []Effect) []Effect {
	negated := make([]Effect, len(effects))
	for i, e := range effects {
		negated[i] = Effect{AccountID: e.AccountID, Delta: e.Delta.Neg()}
	}

	return negated
}
