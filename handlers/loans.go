package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/credline/backoffice-api/models"
	"github.com/credline/backoffice-api/services"
	"github.com/credline/backoffice-api/utils"
)

type LoanHandler struct {
	Ledger *services.LedgerService
}

func NewLoanHandler(ledger *services.LedgerService) *LoanHandler {
	return &LoanHandler{Ledger: ledger}
}

// GetLoans lists candidate loans for a criterion, balances included. The
// balance lookups run concurrently and the consult fails as a whole if any
// of them fails; no partial candidate list is ever shown.
func (h *LoanHandler) GetLoans(c *gin.Context) {
	criterion := models.QueryCriterion{
		AgreementID:      c.Query("agreement_id"),
		EmployerDocument: c.Query("employer_document"),
		BorrowerDocument: c.Query("borrower_document"),
	}
	if !criterion.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide exactly one of agreement_id, employer_document or borrower_document"})
		return
	}

	rows, err := h.Ledger.FetchCandidateRows(c.Request.Context(), criterion)
	if err != nil {
		utils.Errorf("Loan consult failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch candidate loans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loans": rows,
		"count": len(rows),
	})
}

// GetBalance proxies the balance summary of a single loan.
func (h *LoanHandler) GetBalance(c *gin.Context) {
	loanID := c.Param("id")

	summary, err := h.Ledger.FetchBalanceSummary(c.Request.Context(), loanID)
	if err != nil {
		utils.Errorf("Balance lookup failed for loan %s: %v", utils.MaskID(loanID), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch balance summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
