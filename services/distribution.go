package services

import (
	"github.com/shopspring/decimal"
)

// Distribution splits a collected amount between the portion that reduces a
// loan's balance and the portion held as excess.
type Distribution struct {
	Applied  decimal.Decimal `json:"applied"`
	Overpaid decimal.Decimal `json:"overpaid"`
}

// Distribute caps the applied portion at the outstanding balance and routes
// the remainder to overpaid. For every valid input:
//
//	applied + overpaid == round2(amount)
//	applied <= balance
//	applied >= 0 && overpaid >= 0
//
// Overpaying a row more than its balance is therefore impossible by
// construction; there is no error path.
func Distribute(amount, balance decimal.Decimal) Distribution {
	amount = Round2(amount)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	balance = Round2(balance)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	if amount.GreaterThan(balance) {
		return Distribution{
			Applied:  balance,
			Overpaid: Round2(amount.Sub(balance)),
		}
	}
	return Distribution{
		Applied:  amount,
		Overpaid: decimal.Zero,
	}
}
