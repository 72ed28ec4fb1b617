package domain

import "errors"

var (
	// Entity lookup errors. Cross-user access is reported as not-found so
	// record existence never leaks across owners.
	ErrAccountNotFound     = errors.New("account not found")
	ErrCreditCardNotFound  = errors.New("credit card not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	// Transaction shape errors
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrMissingReference       = errors.New("required reference is missing")
	ErrUnexpectedReference    = errors.New("reference not allowed for this transaction type")
	ErrInvalidTransferTarget  = errors.New("transfer target must differ from source account")
	ErrCategoryKindMismatch   = errors.New("category kind does not match transaction type")
	ErrReferenceNotFound      = errors.New("referenced entity not found")

	// Deletion guard errors
	ErrEntityInUse = errors.New("entity is referenced by existing transactions")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
