package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/credline/backoffice-api/models"
)

// LedgerService is the HTTP client for the ledger backend, the system of
// record for loans, balances and postings. This service only consults it and
// submits reconciled batches; it never mutates ledger state directly.
type LedgerService struct {
	BaseURL  string
	APIToken string
	Client   *http.Client
}

func NewLedgerService() *LedgerService {
	baseURL := os.Getenv("LEDGER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9000/api/v2"
	}

	return &LedgerService{
		BaseURL:  baseURL,
		APIToken: os.Getenv("LEDGER_API_TOKEN"),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCandidates lists the loans matching a query criterion (agreement,
// employer document or borrower document).
func (s *LedgerService) FetchCandidates(ctx context.Context, criterion models.QueryCriterion) ([]models.Loan, error) {
	params := url.Values{}
	if criterion.AgreementID != "" {
		params.Set("agreement_id", criterion.AgreementID)
	}
	if criterion.EmployerDocument != "" {
		params.Set("employer_document", criterion.EmployerDocument)
	}
	if criterion.BorrowerDocument != "" {
		params.Set("borrower_document", criterion.BorrowerDocument)
	}

	var result struct {
		Loans []models.Loan `json:"loans"`
	}
	if err := s.get(ctx, "/loans?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// FetchBalanceSummary returns the balance snapshot for one loan.
func (s *LedgerService) FetchBalanceSummary(ctx context.Context, loanID string) (*models.BalanceSummary, error) {
	var summary models.BalanceSummary
	if err := s.get(ctx, "/loans/"+url.PathEscape(loanID)+"/balance", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchCandidateRows fetches the candidate loans for a criterion and then
// their balances, one independent request per loan, all in flight at once.
//
// The join is all-or-nothing: if any lookup fails the whole consult fails
// and no partial candidate list is ever returned. A back-office operator
// acting on an incomplete list would distribute money against loans that
// silently dropped out.
func (s *LedgerService) FetchCandidateRows(ctx context.Context, criterion models.QueryCriterion) ([]models.CandidateRow, error) {
	loans, err := s.FetchCandidates(ctx, criterion)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate loans: %w", err)
	}

	rows := make([]models.CandidateRow, len(loans))
	errs := make([]error, len(loans))

	var wg sync.WaitGroup
	for i, loan := range loans {
		wg.Add(1)
		go func(i int, loan models.Loan) {
			defer wg.Done()

			summary, err := s.FetchBalanceSummary(ctx, loan.ID)
			if err != nil {
				errs[i] = fmt.Errorf("balance lookup for loan %s: %w", loan.ID, err)
				return
			}

			rows[i] = models.CandidateRow{
				LoanID:       loan.ID,
				CreditNumber: NormalizeKey(loan.CreditNumber),
				BorrowerName: loan.BorrowerName,
				Balance:      Round2(summary.CurrentBalance),
			}
		}(i, loan)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// batchSubmission is the wire format for a reconciled batch.
type batchSubmission struct {
	SessionID    string               `json:"session_id"`
	TargetAmount string               `json:"target_amount"`
	Rows         []batchSubmissionRow `json:"rows"`
}

type batchSubmissionRow struct {
	LoanID   string `json:"loan_id"`
	Applied  string `json:"applied_amount"`
	Overpaid string `json:"overpaid_amount"`
}

// SubmitBatch posts a reconciled batch to the ledger for processing. Only
// rows with an assignment are sent.
func (s *LedgerService) SubmitBatch(ctx context.Context, session *models.BatchSession) (*models.BatchSubmitResult, error) {
	payload := batchSubmission{
		SessionID:    session.ID,
		TargetAmount: session.TargetAmount.StringFixed(2),
	}
	for _, row := range session.Rows {
		if !row.HasAssignment() {
			continue
		}
		payload.Rows = append(payload.Rows, batchSubmissionRow{
			LoanID:   row.LoanID,
			Applied:  row.AppliedAmount.StringFixed(2),
			Overpaid: row.OverpaidAmount.StringFixed(2),
		})
	}

	var result models.BatchSubmitResult
	if err := s.post(ctx, "/payments/batch", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SimulateRefinance forwards an aggregated refinancing request and returns
// the projected amortization schedule untouched.
func (s *LedgerService) SimulateRefinance(ctx context.Context, principal string, req models.RefinanceRequest) (*models.RefinanceSimulation, error) {
	payload := map[string]interface{}{
		"aggregated_principal": principal,
		"loan_ids":             req.LoanIDs,
		"installments":         req.Installments,
		"first_due_date":       req.FirstDueDate,
	}

	var result models.RefinanceSimulation
	if err := s.post(ctx, "/refinancing/simulate", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *LedgerService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	s.authorize(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ledger GET %s failed (%d): %s", path, resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *LedgerService) post(ctx context.Context, path string, payload, out interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ledger POST %s failed (%d): %s", path, resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *LedgerService) authorize(req *http.Request) {
	if s.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIToken)
	}
}
