package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	values := []string{"0", "100", "-250.75", "0.01", "99999999999.99", "120.45"}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			d := decimal.RequireFromString(v)

			n := decimalToNumeric(d)
			require.True(t, n.Valid, "expected numeric to be valid")

			got := numericToDecimal(n)
			assert.True(t, got.Equal(d), "expected %s, got %s", d, got)
		})
	}
}

func TestNumericToDecimal_Invalid(t *testing.T) {
	got := numericToDecimal(pgtype.Numeric{})
	assert.True(t, got.IsZero(), "expected invalid numeric to read as zero")
}
