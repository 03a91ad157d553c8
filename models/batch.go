package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionState tracks where a batch session is in its lifecycle.
type SessionState string

const (
	SessionEmpty       SessionState = "empty"
	SessionQueried     SessionState = "queried"
	SessionDistributed SessionState = "distributed"
	SessionReconciled  SessionState = "reconciled"
	SessionSubmitted   SessionState = "submitted"
)

// BatchEntry is one parsed line of an uploaded batch file: a normalized
// credit number and the summed amount assigned to it.
type BatchEntry struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// CandidateRow is a loan under consideration for payment assignment in a
// batch session. Rows live only for the duration of the session.
type CandidateRow struct {
	LoanID         string          `json:"loan_id"`
	CreditNumber   string          `json:"credit_number"`
	BorrowerName   string          `json:"borrower_name"`
	Balance        decimal.Decimal `json:"balance"`
	AppliedAmount  decimal.Decimal `json:"applied_amount"`
	OverpaidAmount decimal.Decimal `json:"overpaid_amount"`
}

// HasAssignment reports whether anything has been distributed to the row.
func (r CandidateRow) HasAssignment() bool {
	return r.AppliedAmount.IsPositive() || r.OverpaidAmount.IsPositive()
}

// AllocationLine is one payment-method line of a manual allocation. The sum
// of all lines must equal the amount received.
type AllocationLine struct {
	MethodID  string          `json:"method_id"`
	Reference string          `json:"reference,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// ReconciliationResult compares the assigned totals of a session against the
// target collection amount.
type ReconciliationResult struct {
	TotalApplied  decimal.Decimal `json:"total_applied"`
	TotalOverpaid decimal.Decimal `json:"total_overpaid"`
	TotalAssigned decimal.Decimal `json:"total_assigned"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Difference    decimal.Decimal `json:"difference"`
	AssignedRows  int             `json:"assigned_rows"`
	Balanced      bool            `json:"balanced"`
}

// BatchSession is the transient state of one reconciliation workflow. It is
// never persisted; the ledger backend stays the system of record.
type BatchSession struct {
	ID           string          `json:"id"`
	Criterion    QueryCriterion  `json:"criterion"`
	State        SessionState    `json:"state"`
	Rows         []CandidateRow  `json:"rows"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
