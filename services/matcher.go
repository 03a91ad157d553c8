package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/credline/backoffice-api/models"
)

// MatchOutcome is the result of applying a parsed batch map to the candidate
// rows of a session.
type MatchOutcome struct {
	Rows          []models.CandidateRow
	MatchedCount  int
	UnmatchedKeys []string
}

// ApplyBatch distributes the batch amounts over the candidate rows, joining
// on the normalized credit number. Rows absent from the batch keep whatever
// was assigned to them before: a partial file must not erase manual edits.
// Batch keys with no matching row are surfaced as warnings, never errors;
// the rest of the batch still applies.
//
// The input slice is not mutated; a fresh row slice is returned.
func ApplyBatch(rows []models.CandidateRow, batch map[string]decimal.Decimal) MatchOutcome {
	updated := make([]models.CandidateRow, len(rows))
	copy(updated, rows)

	matchedKeys := make(map[string]bool, len(batch))
	matched := 0

	for i, row := range updated {
		key := NormalizeKey(row.CreditNumber)
		amount, ok := batch[key]
		if !ok {
			continue
		}

		dist := Distribute(amount, row.Balance)
		updated[i].AppliedAmount = dist.Applied
		updated[i].OverpaidAmount = dist.Overpaid
		matchedKeys[key] = true
		matched++
	}

	var unmatched []string
	for key := range batch {
		if !matchedKeys[key] {
			unmatched = append(unmatched, key)
		}
	}
	sort.Strings(unmatched)

	return MatchOutcome{
		Rows:          updated,
		MatchedCount:  matched,
		UnmatchedKeys: unmatched,
	}
}

// NormalizeKey normalizes a credit/account identifier for use as a join key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
