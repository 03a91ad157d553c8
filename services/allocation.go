package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/credline/backoffice-api/models"
)

// RawAllocationLine is a payment-method line as entered in the UI, amounts
// still free text.
type RawAllocationLine struct {
	MethodID  string `json:"method_id" binding:"required"`
	Reference string `json:"reference,omitempty"`
	Amount    string `json:"amount" binding:"required"`
}

// AllocationSummary reconciles a set of payment-method lines against the
// amount received. Same tolerance as batch reconciliation: one cent.
type AllocationSummary struct {
	Lines         []models.AllocationLine `json:"lines"`
	TotalAssigned decimal.Decimal         `json:"total_assigned"`
	TargetAmount  decimal.Decimal         `json:"target_amount"`
	Difference    decimal.Decimal         `json:"difference"`
	Balanced      bool                    `json:"balanced"`
}

// ReconcileAllocations normalizes each line amount and checks that the lines
// sum to the target. Unlike batch files, a bad line here is a hard error:
// the operator typed it and has to fix it.
func ReconcileAllocations(rawLines []RawAllocationLine, rawTarget string) (*AllocationSummary, error) {
	target, err := ParseAmount(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid amount received %q: %w", rawTarget, err)
	}

	lines := make([]models.AllocationLine, 0, len(rawLines))
	total := decimal.Zero
	for i, raw := range rawLines {
		amount, err := ParseAmount(raw.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", i+1, raw.Amount, err)
		}
		lines = append(lines, models.AllocationLine{
			MethodID:  raw.MethodID,
			Reference: raw.Reference,
			Amount:    amount,
		})
		total = Round2(total.Add(amount))
	}

	difference := Round2(target.Sub(total))

	return &AllocationSummary{
		Lines:         lines,
		TotalAssigned: total,
		TargetAmount:  target,
		Difference:    difference,
		Balanced:      difference.Abs().LessThanOrEqual(Epsilon),
	}, nil
}
