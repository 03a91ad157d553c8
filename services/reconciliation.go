package services

import (
	"github.com/shopspring/decimal"

	"github.com/credline/backoffice-api/models"
)

// ComputeTotals aggregates the assigned amounts of a session's rows and
// compares them against the target collection amount. Rows with nothing
// assigned do not count toward the rows to process.
//
// Applied and overpaid are each summed over the full row set and rounded
// once after the reduction; the per-row amounts are already at 2 decimals,
// so rounding per step would only compound noise.
func ComputeTotals(rows []models.CandidateRow, target decimal.Decimal) models.ReconciliationResult {
	totalApplied := decimal.Zero
	totalOverpaid := decimal.Zero
	assigned := 0

	for _, row := range rows {
		if !row.HasAssignment() {
			continue
		}
		totalApplied = totalApplied.Add(row.AppliedAmount)
		totalOverpaid = totalOverpaid.Add(row.OverpaidAmount)
		assigned++
	}

	totalApplied = Round2(totalApplied)
	totalOverpaid = Round2(totalOverpaid)
	totalAssigned := Round2(totalApplied.Add(totalOverpaid))
	difference := Round2(target.Sub(totalAssigned))

	return models.ReconciliationResult{
		TotalApplied:  totalApplied,
		TotalOverpaid: totalOverpaid,
		TotalAssigned: totalAssigned,
		TargetAmount:  Round2(target),
		Difference:    difference,
		AssignedRows:  assigned,
		Balanced:      difference.Abs().LessThanOrEqual(Epsilon),
	}
}

// IsSubmittable is the submission gate: the batch may go to the ledger only
// when the difference is within one cent and at least one row has an
// assignment. Enforced by the session store, not by ComputeTotals itself.
func IsSubmittable(r models.ReconciliationResult) bool {
	return r.Balanced && r.AssignedRows > 0
}
