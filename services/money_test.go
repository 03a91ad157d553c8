package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain integer", "120", "120.00"},
		{"dot decimal", "1234.56", "1234.56"},
		{"comma decimal", "1234,56", "1234.56"},
		{"comma after dot wins", "1.234,56", "1234.56"},
		{"dot after comma wins", "1,234.56", "1234.56"},
		{"multiple thousand marks", "1.234.567,89", "1234567.89"},
		{"currency prefix stripped", "R$ 1.500,00", "1500.00"},
		{"whitespace stripped", "  99,90 ", "99.90"},
		{"lone comma", "0,5", "0.50"},
		{"rounds half away from zero", "10.005", "10.01"},
		{"rounds down below half", "10.004", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseAmountErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty string", "", ErrEmptyAmount},
		{"only letters", "abc", ErrEmptyAmount},
		{"only symbols", "R$ ", ErrEmptyAmount},
		{"zero", "0", ErrNonPositiveAmount},
		{"zero with decimals", "0,00", ErrNonPositiveAmount},
		{"negative", "-10.00", ErrNonPositiveAmount},
		{"garbage separators", "1,2,3.4.5", ErrInvalidAmount},
		{"lone minus", "-", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmount(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Any amount already at two decimals must survive a parse round-trip
// unchanged; the reconciliation tolerance depends on it.
func TestParseAmountRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.01", "0.99", "10.50", "999.99", "123456.78"} {
		got, err := ParseAmount(raw)
		require.NoError(t, err)
		expected, _ := decimal.NewFromString(raw)
		assert.True(t, got.Equal(expected), "round-trip changed %s to %s", raw, got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"-10.005", "-10.01"},
		{"0.001", "0.00"},
		{"2.675", "2.68"},
	}

	for _, tt := range tests {
		in := decimal.RequireFromString(tt.in)
		assert.Equal(t, tt.want, Round2(in).StringFixed(2), "Round2(%s)", tt.in)
	}
}

func TestEpsilonIsOneCent(t *testing.T) {
	assert.Equal(t, "0.01", Epsilon.StringFixed(2))
}
