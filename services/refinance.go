package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/credline/backoffice-api/models"
	"github.com/credline/backoffice-api/utils"
)

var ErrNoLoansSelected = errors.New("no loans selected for refinancing")

// RefinanceService prepares multi-loan refinancing simulations: it
// aggregates the outstanding balances of the selected loans into a single
// principal and asks the ledger backend to project the new contract. The
// actual refinancing execution stays on the ledger side.
type RefinanceService struct {
	Ledger *LedgerService
}

func NewRefinanceService(ledger *LedgerService) *RefinanceService {
	return &RefinanceService{Ledger: ledger}
}

// Simulate fetches the balance of every selected loan (one request per
// loan, all concurrent, all-or-nothing like the candidate load), sums them
// at cent precision and forwards the aggregate to the simulation endpoint.
func (s *RefinanceService) Simulate(ctx context.Context, req models.RefinanceRequest) (*models.RefinanceSimulation, error) {
	if len(req.LoanIDs) == 0 {
		return nil, ErrNoLoansSelected
	}

	balances := make([]decimal.Decimal, len(req.LoanIDs))
	errs := make([]error, len(req.LoanIDs))

	var wg sync.WaitGroup
	for i, loanID := range req.LoanIDs {
		wg.Add(1)
		go func(i int, loanID string) {
			defer wg.Done()

			summary, err := s.Ledger.FetchBalanceSummary(ctx, loanID)
			if err != nil {
				errs[i] = fmt.Errorf("balance lookup for loan %s: %w", loanID, err)
				return
			}
			balances[i] = Round2(summary.CurrentBalance)
		}(i, loanID)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	principal := decimal.Zero
	for _, balance := range balances {
		principal = Round2(principal.Add(balance))
	}

	utils.Infof("🔁 Refinance simulation: %d loans, aggregated principal %s", len(req.LoanIDs), principal.StringFixed(2))

	simulation, err := s.Ledger.SimulateRefinance(ctx, principal.StringFixed(2), req)
	if err != nil {
		return nil, fmt.Errorf("simulating refinancing: %w", err)
	}

	return simulation, nil
}
