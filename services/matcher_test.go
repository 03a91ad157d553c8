package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credline/backoffice-api/models"
)

func candidate(loanID, creditNumber, balance string) models.CandidateRow {
	return models.CandidateRow{
		LoanID:       loanID,
		CreditNumber: creditNumber,
		Balance:      decimal.RequireFromString(balance),
	}
}

func TestApplyBatch(t *testing.T) {
	rows := []models.CandidateRow{
		candidate("1", "AB001", "80.00"),
		candidate("2", "AB002", "200.00"),
	}
	batch := map[string]decimal.Decimal{
		"AB001": decimal.RequireFromString("120.00"),
		"AB002": decimal.RequireFromString("150.00"),
	}

	outcome := ApplyBatch(rows, batch)

	require.Len(t, outcome.Rows, 2)
	assert.Equal(t, 2, outcome.MatchedCount)
	assert.Empty(t, outcome.UnmatchedKeys)

	assert.Equal(t, "80.00", outcome.Rows[0].AppliedAmount.StringFixed(2))
	assert.Equal(t, "40.00", outcome.Rows[0].OverpaidAmount.StringFixed(2))
	assert.Equal(t, "150.00", outcome.Rows[1].AppliedAmount.StringFixed(2))
	assert.Equal(t, "0.00", outcome.Rows[1].OverpaidAmount.StringFixed(2))
}

func TestApplyBatchPreservesUntouchedRows(t *testing.T) {
	edited := candidate("2", "AB002", "200.00")
	edited.AppliedAmount = decimal.RequireFromString("55.00")

	rows := []models.CandidateRow{
		candidate("1", "AB001", "80.00"),
		edited,
	}
	batch := map[string]decimal.Decimal{
		"AB001": decimal.RequireFromString("30.00"),
	}

	outcome := ApplyBatch(rows, batch)

	// AB002 was not in the file: the manual assignment survives
	assert.Equal(t, "55.00", outcome.Rows[1].AppliedAmount.StringFixed(2))
	assert.Equal(t, 1, outcome.MatchedCount)
}

func TestApplyBatchUnmatchedKeysSurfaced(t *testing.T) {
	rows := []models.CandidateRow{
		candidate("1", "AB001", "80.00"),
	}
	batch := map[string]decimal.Decimal{
		"AB001": decimal.RequireFromString("10.00"),
		"Z999":  decimal.RequireFromString("25.00"),
	}

	outcome := ApplyBatch(rows, batch)

	assert.Equal(t, []string{"Z999"}, outcome.UnmatchedKeys)
	assert.Equal(t, 1, outcome.MatchedCount)
}

func TestApplyBatchDoesNotMutateInput(t *testing.T) {
	rows := []models.CandidateRow{
		candidate("1", "AB001", "80.00"),
	}
	batch := map[string]decimal.Decimal{
		"AB001": decimal.RequireFromString("120.00"),
	}

	ApplyBatch(rows, batch)

	assert.Equal(t, "0.00", rows[0].AppliedAmount.StringFixed(2), "input rows must stay untouched")
}

func TestApplyBatchJoinsOnNormalizedKey(t *testing.T) {
	rows := []models.CandidateRow{
		candidate("1", "  ab001 ", "80.00"),
	}
	batch := map[string]decimal.Decimal{
		"AB001": decimal.RequireFromString("10.00"),
	}

	outcome := ApplyBatch(rows, batch)

	assert.Equal(t, 1, outcome.MatchedCount)
	assert.Equal(t, "10.00", outcome.Rows[0].AppliedAmount.StringFixed(2))
}

// The full scenario: candidate with balance 80.00 and a batch line "1,120"
// distributes to 80.00 applied / 40.00 overpaid, and the totals reconcile
// against a 120.00 target.
func TestBatchEndToEnd(t *testing.T) {
	parsed := ParseBatch("1,120")
	require.Len(t, parsed.Entries, 1)

	rows := []models.CandidateRow{
		candidate("loan-1", "1", "80.00"),
	}

	outcome := ApplyBatch(rows, parsed.Entries)
	require.Equal(t, 1, outcome.MatchedCount)
	assert.Equal(t, "80.00", outcome.Rows[0].AppliedAmount.StringFixed(2))
	assert.Equal(t, "40.00", outcome.Rows[0].OverpaidAmount.StringFixed(2))

	totals := ComputeTotals(outcome.Rows, decimal.RequireFromString("120.00"))
	assert.Equal(t, "80.00", totals.TotalApplied.StringFixed(2))
	assert.Equal(t, "40.00", totals.TotalOverpaid.StringFixed(2))
	assert.Equal(t, "120.00", totals.TotalAssigned.StringFixed(2))
	assert.Equal(t, "0.00", totals.Difference.StringFixed(2))
	assert.True(t, IsSubmittable(totals))
}
