package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateName("Checking Account"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		if err := ValidateName("   "); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxNameLength+1)
		if err := ValidateName(tooLong); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	normalized := NormalizeAmount(decimal.RequireFromString("10.005"))
	if normalized.String() != "10.01" {
		t.Errorf("expected 10.01, got %s", normalized)
	}

	exact := NormalizeAmount(decimal.RequireFromString("10.50"))
	if !exact.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("expected 10.5, got %s", exact)
	}
}

func TestValidateDayOfMonth(t *testing.T) {
	t.Parallel()

	for _, day := range []int{1, 15, 31} {
		if err := ValidateDayOfMonth(day); err != nil {
			t.Errorf("day %d: expected no error, got %v", day, err)
		}
	}

	for _, day := range []int{0, -1, 32} {
		if err := ValidateDayOfMonth(day); !errors.Is(err, ErrInvalidDay) {
			t.Errorf("day %d: expected ErrInvalidDay, got %v", day, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("user@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("longenough1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	if err := ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _ = ValidatePagination(10000, 0)
	if limit != 500 {
		t.Errorf("expected limit capped at 500, got %d", limit)
	}
}
