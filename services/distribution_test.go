package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		balance  string
		applied  string
		overpaid string
	}{
		{"amount below balance", "50.00", "80.00", "50.00", "0.00"},
		{"amount equals balance", "80.00", "80.00", "80.00", "0.00"},
		{"amount above balance", "120.00", "80.00", "80.00", "40.00"},
		{"zero balance", "25.00", "0.00", "0.00", "25.00"},
		{"zero amount", "0.00", "80.00", "0.00", "0.00"},
		{"negative amount clamped", "-10.00", "80.00", "0.00", "0.00"},
		{"cent precision", "100.015", "50.005", "50.01", "50.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := Distribute(
				decimal.RequireFromString(tt.amount),
				decimal.RequireFromString(tt.balance),
			)
			assert.Equal(t, tt.applied, dist.Applied.StringFixed(2))
			assert.Equal(t, tt.overpaid, dist.Overpaid.StringFixed(2))
		})
	}
}

// applied + overpaid == round2(amount), applied <= balance, both
// non-negative. For every valid input, no exceptions.
func TestDistributeInvariants(t *testing.T) {
	amounts := []string{"0", "0.01", "9.99", "50", "80", "80.01", "120", "1000000.55"}
	balances := []string{"0", "0.01", "50", "80", "99.99", "500000"}

	for _, amountStr := range amounts {
		for _, balanceStr := range balances {
			amount := decimal.RequireFromString(amountStr)
			balance := decimal.RequireFromString(balanceStr)

			dist := Distribute(amount, balance)

			sum := dist.Applied.Add(dist.Overpaid)
			assert.True(t, sum.Equal(Round2(amount)),
				"amount=%s balance=%s: applied+overpaid=%s", amountStr, balanceStr, sum)
			assert.True(t, dist.Applied.LessThanOrEqual(balance),
				"amount=%s balance=%s: applied exceeds balance", amountStr, balanceStr)
			assert.False(t, dist.Applied.IsNegative())
			assert.False(t, dist.Overpaid.IsNegative())
		}
	}
}

func TestDistributeDoesNotMutateInputs(t *testing.T) {
	amount := decimal.RequireFromString("120.00")
	balance := decimal.RequireFromString("80.00")

	Distribute(amount, balance)

	assert.Equal(t, "120.00", amount.StringFixed(2))
	assert.Equal(t, "80.00", balance.StringFixed(2))
}
