package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/credline/backoffice-api/services"
)

type AllocationHandler struct{}

func NewAllocationHandler() *AllocationHandler {
	return &AllocationHandler{}
}

// ReconcileAllocations checks that a set of payment-method lines sums to the
// amount received. Pure computation, nothing is stored or posted.
func (h *AllocationHandler) ReconcileAllocations(c *gin.Context) {
	var req struct {
		AmountReceived string                       `json:"amount_received" binding:"required"`
		Lines          []services.RawAllocationLine `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := services.ReconcileAllocations(req.Lines, req.AmountReceived)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
