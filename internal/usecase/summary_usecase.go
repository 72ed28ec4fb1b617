package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// SummaryUseCase derives read-only aggregates from stored state. It never
// mutates balances.
type SummaryUseCase struct {
	accountRepo AccountRepository
	cardRepo    CreditCardRepository
	txRepo      TransactionRepository
	cache       Cache
}

// NewSummaryUseCase creates a new SummaryUseCase. cache may be nil.
func NewSummaryUseCase(accountRepo AccountRepository, cardRepo CreditCardRepository, txRepo TransactionRepository, cache Cache) *SummaryUseCase {
	return &SummaryUseCase{
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		txRepo:      txRepo,
		cache:       cache,
	}
}

// TransactionSummary totals transaction amounts by type within a period.
// Types absent from the period report zero rather than being omitted.
type TransactionSummary struct {
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalTransfers decimal.Decimal `json:"total_transfers"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	Count          int64           `json:"count"`
}

// Overview is the user's aggregate financial position.
type Overview struct {
	TotalBalance    decimal.Decimal `json:"total_balance"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	TotalLimit      decimal.Decimal `json:"total_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	UtilizationPct  decimal.Decimal `json:"utilization_pct"`
}

// GetSummary sums transaction amounts grouped by type in the optional date
// range.
func (uc *SummaryUseCase) GetSummary(ctx context.Context, ownerID string, from, to *time.Time) (*TransactionSummary, error) {
	totals, err := uc.txRepo.SumByType(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &TransactionSummary{
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		TotalTransfers: decimal.Zero,
	}

	for _, kt := range totals {
		switch kt.Type {
		case domain.TypeIncome:
			summary.TotalIncome = kt.Total
		case domain.TypeExpense:
			summary.TotalExpenses = kt.Total
		case domain.TypeTransfer:
			summary.TotalTransfers = kt.Total
		}

		summary.Count += kt.Count
	}

	summary.NetAmount = summary.TotalIncome.Sub(summary.TotalExpenses)

	return summary, nil
}

// GetMonthlySummary sums transactions within one calendar month.
func (uc *SummaryUseCase) GetMonthlySummary(ctx context.Context, ownerID string, year int, month time.Month) (*TransactionSummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	return uc.GetSummary(ctx, ownerID, &from, &to)
}

// GetOverview returns the user's total balance, card debt and utilization.
// The result is cached per user; transaction mutations invalidate it.
func (uc *SummaryUseCase) GetOverview(ctx context.Context, ownerID string) (*Overview, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, overviewCacheKey(ownerID)); err == nil && data != nil {
			var cached Overview
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	balance, err := uc.accountRepo.SumBalances(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	debt, limit, err := uc.cardRepo.SumDebtAndLimit(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Utilization is defined as zero when there is no limit to utilize.
	utilization := decimal.Zero
	if limit.IsPositive() {
		utilization = debt.Div(limit).Mul(decimal.NewFromInt(100)).Round(domain.AmountScale)
	}

	overview := &Overview{
		TotalBalance:    balance,
		TotalDebt:       debt,
		TotalLimit:      limit,
		AvailableCredit: limit.Sub(debt),
		UtilizationPct:  utilization,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(overview); err == nil {
			_ = uc.cache.Set(ctx, overviewCacheKey(ownerID), data, OverviewCacheTTL)
		}
	}

	return overview, nil
}
