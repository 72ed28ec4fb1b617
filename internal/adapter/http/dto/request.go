package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{Name: r.Name}
}

// UpdateAccountRequest represents a request to rename an account.
type UpdateAccountRequest struct {
	Name string `json:"name"`
}

// CreateCreditCardRequest represents a request to create a credit card.
type CreateCreditCardRequest struct {
	Name       string          `json:"name"`
	LimitValue decimal.Decimal `json:"limit_value"`
	DueDay     int             `json:"due_day"`
	ClosingDay int             `json:"closing_day"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCreditCardRequest) ToUseCaseInput() usecase.CreateCreditCardInput {
	return usecase.CreateCreditCardInput{
		Name:       r.Name,
		LimitValue: r.LimitValue,
		DueDay:     r.DueDay,
		ClosingDay: r.ClosingDay,
	}
}

// UpdateCreditCardRequest is a partial update of card attributes.
type UpdateCreditCardRequest struct {
	Name       *string          `json:"name,omitempty"`
	LimitValue *decimal.Decimal `json:"limit_value,omitempty"`
	DueDay     *int             `json:"due_day,omitempty"`
	ClosingDay *int             `json:"closing_day,omitempty"`
	Paid       *bool            `json:"paid,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCreditCardRequest) ToUseCaseInput() usecase.UpdateCreditCardInput {
	return usecase.UpdateCreditCardInput{
		Name:       r.Name,
		LimitValue: r.LimitValue,
		DueDay:     r.DueDay,
		ClosingDay: r.ClosingDay,
		Paid:       r.Paid,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Visible *bool  `json:"visible,omitempty"`
}

// ToUseCaseInput converts to use case input. Visibility defaults to true.
func (r *CreateCategoryRequest) ToUseCaseInput() usecase.CreateCategoryInput {
	visible := true
	if r.Visible != nil {
		visible = *r.Visible
	}

	return usecase.CreateCategoryInput{
		Name:    r.Name,
		Kind:    domain.CategoryKind(r.Kind),
		Visible: visible,
	}
}

// UpdateCategoryRequest is a partial update of category attributes.
type UpdateCategoryRequest struct {
	Name    *string `json:"name,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput() usecase.UpdateCategoryInput {
	return usecase.UpdateCategoryInput{
		Name:    r.Name,
		Visible: r.Visible,
	}
}

// CreateTransactionRequest represents a request to create a transaction.
type CreateTransactionRequest struct {
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	OccurredAt        *time.Time      `json:"occurred_at,omitempty"`
	Settled           *bool           `json:"settled,omitempty"`
	Note              string          `json:"note,omitempty"`
	AccountID         string          `json:"account_id"`
	CategoryID        *string         `json:"category_id,omitempty"`
	TransferAccountID *string         `json:"transfer_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		Type:              domain.TransactionType(r.Type),
		Amount:            r.Amount,
		OccurredAt:        r.OccurredAt,
		Settled:           r.Settled,
		Note:              r.Note,
		AccountID:         r.AccountID,
		CategoryID:        r.CategoryID,
		TransferAccountID: r.TransferAccountID,
	}
}

// UpdateTransactionRequest is a partial update of a transaction. Omitted
// fields keep the stored value; the clear flags drop a nullable reference.
type UpdateTransactionRequest struct {
	Type                 *string          `json:"type,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt           *time.Time       `json:"occurred_at,omitempty"`
	Settled              *bool            `json:"settled,omitempty"`
	Note                 *string          `json:"note,omitempty"`
	AccountID            *string          `json:"account_id,omitempty"`
	CategoryID           *string          `json:"category_id,omitempty"`
	ClearCategory        bool             `json:"clear_category,omitempty"`
	TransferAccountID    *string          `json:"transfer_account_id,omitempty"`
	ClearTransferAccount bool             `json:"clear_transfer_account,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.UpdateTransactionInput {
	input := usecase.UpdateTransactionInput{
		Amount:               r.Amount,
		OccurredAt:           r.OccurredAt,
		Settled:              r.Settled,
		Note:                 r.Note,
		AccountID:            r.AccountID,
		CategoryID:           r.CategoryID,
		ClearCategory:        r.ClearCategory,
		TransferAccountID:    r.TransferAccountID,
		ClearTransferAccount: r.ClearTransferAccount,
	}

	if r.Type != nil {
		t := domain.TransactionType(*r.Type)
		input.Type = &t
	}

	return input
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
