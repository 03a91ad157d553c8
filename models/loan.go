package models

import (
	"github.com/shopspring/decimal"
)

// Loan is a consumer-lending contract as returned by the ledger backend.
type Loan struct {
	ID               string `json:"id"`
	CreditNumber     string `json:"credit_number"`
	AgreementID      string `json:"agreement_id"`
	BorrowerName     string `json:"borrower_name"`
	BorrowerDocument string `json:"borrower_document"`
	Status           string `json:"status"`
}

// BalanceSummary is the per-loan balance snapshot from the ledger backend.
type BalanceSummary struct {
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	OverdueBalance   decimal.Decimal `json:"overdue_balance"`
	DueBalance       decimal.Decimal `json:"due_balance"`
	OpenInstallments int             `json:"open_installments"`
	NextDueDate      string          `json:"next_due_date"`
}

// QueryCriterion selects the candidate loans for a batch session.
// Exactly one field must be set.
type QueryCriterion struct {
	AgreementID      string `json:"agreement_id,omitempty"`
	EmployerDocument string `json:"employer_document,omitempty"`
	BorrowerDocument string `json:"borrower_document,omitempty"`
}

// IsValid reports whether exactly one criterion field is set.
func (q QueryCriterion) IsValid() bool {
	set := 0
	for _, v := range []string{q.AgreementID, q.EmployerDocument, q.BorrowerDocument} {
		if v != "" {
			set++
		}
	}
	return set == 1
}

// RefinanceRequest aggregates a set of loans into a single new contract
// simulation. The ledger backend runs the actual simulation.
type RefinanceRequest struct {
	LoanIDs      []string `json:"loan_ids"`
	Installments int      `json:"installments"`
	FirstDueDate string   `json:"first_due_date"`
}

// RefinanceSimulation is the projected result returned by the ledger.
// The amortization schedule is passed through untouched.
type RefinanceSimulation struct {
	AggregatedPrincipal decimal.Decimal   `json:"aggregated_principal"`
	Installments        int               `json:"installments"`
	InstallmentAmount   decimal.Decimal   `json:"installment_amount"`
	FirstDueDate        string            `json:"first_due_date"`
	Schedule            []ScheduleEntry   `json:"schedule"`
	PerLoanBalances     map[string]string `json:"per_loan_balances,omitempty"`
}

// ScheduleEntry is one projected amortization installment.
type ScheduleEntry struct {
	Number    int             `json:"number"`
	DueDate   string          `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}

// BatchSubmitResult is the ledger's acknowledgement of a reconciled batch.
type BatchSubmitResult struct {
	ProcessedRows int             `json:"processed_rows"`
	TotalApplied  decimal.Decimal `json:"total_applied"`
	TotalOverpaid decimal.Decimal `json:"total_overpaid"`
}
