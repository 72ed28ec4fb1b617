package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName     = errors.New("invalid name")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrInvalidDay      = errors.New("day of month must be between 1 and 31")
)

// Validation constants
const (
	MaxNameLength     = 255
	MaxAmount         = "1000000000" // 1 billion
	MinPasswordLength = 8
	MaxPasswordLength = 128

	// AmountScale is the fixed number of fractional digits stored for all
	// monetary values. Arithmetic is exact to the cent.
	AmountScale = 2
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateName validates an account, card or category name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// NormalizeAmount fixes an amount to the stored cent precision.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// ValidateDayOfMonth validates a credit card due or closing day.
func ValidateDayOfMonth(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
