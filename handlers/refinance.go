package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/credline/backoffice-api/models"
	"github.com/credline/backoffice-api/services"
	"github.com/credline/backoffice-api/utils"
)

type RefinanceHandler struct {
	Service *services.RefinanceService
}

func NewRefinanceHandler(ledger *services.LedgerService) *RefinanceHandler {
	return &RefinanceHandler{Service: services.NewRefinanceService(ledger)}
}

// Simulate aggregates the selected loans' balances and asks the ledger for a
// projected amortization schedule. Nothing is executed here.
func (h *RefinanceHandler) Simulate(c *gin.Context) {
	var req models.RefinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	simulation, err := h.Service.Simulate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrNoLoansSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.Errorf("Refinance simulation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to simulate refinancing"})
		return
	}

	c.JSON(http.StatusOK, simulation)
}
