package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrentValue decimal.Decimal `json:"current_value"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		Name:         a.Name,
		CurrentValue: a.CurrentValue,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// CreditCardResponse represents a credit card in API responses.
type CreditCardResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	LimitValue     decimal.Decimal `json:"limit_value"`
	AvailableLimit decimal.Decimal `json:"available_limit"`
	DueDay         int             `json:"due_day"`
	ClosingDay     int             `json:"closing_day"`
	Paid           bool            `json:"paid"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreditCardFromDomain converts a domain credit card to a response.
func CreditCardFromDomain(c *domain.CreditCard) *CreditCardResponse {
	return &CreditCardResponse{
		ID:             c.ID,
		Name:           c.Name,
		CurrentValue:   c.CurrentValue,
		LimitValue:     c.LimitValue,
		AvailableLimit: c.AvailableLimit(),
		DueDay:         c.DueDay,
		ClosingDay:     c.ClosingDay,
		Paid:           c.Paid,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CreditCardsFromDomain converts domain credit cards to responses.
func CreditCardsFromDomain(cards []*domain.CreditCard) []*CreditCardResponse {
	result := make([]*CreditCardResponse, len(cards))
	for i, c := range cards {
		result[i] = CreditCardFromDomain(c)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Visible:   c.Visible,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	OccurredAt        time.Time       `json:"occurred_at"`
	Settled           bool            `json:"settled"`
	Note              string          `json:"note,omitempty"`
	AccountID         string          `json:"account_id"`
	CategoryID        *string         `json:"category_id,omitempty"`
	TransferAccountID *string         `json:"transfer_account_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		OccurredAt:        t.OccurredAt,
		Settled:           t.Settled,
		Note:              t.Note,
		AccountID:         t.AccountID,
		CategoryID:        t.CategoryID,
		TransferAccountID: t.TransferAccountID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
