package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/credline/backoffice-api/handlers"
	"github.com/credline/backoffice-api/services"
)

// SetupLoanRoutes sets up the loan consult routes.
func SetupLoanRoutes(rg *gin.RouterGroup, ledger *services.LedgerService) {
	loanHandler := handlers.NewLoanHandler(ledger)

	rg.GET("/loans", loanHandler.GetLoans)
	rg.GET("/loans/:id/balance", loanHandler.GetBalance)
}

// SetupBatchRoutes sets up the batch session lifecycle routes.
func SetupBatchRoutes(rg *gin.RouterGroup, store *services.SessionStore) {
	h := handlers.NewBatchHandler(store)

	rg.POST("/batch/sessions", h.OpenSession)
	rg.GET("/batch/sessions/:id", h.GetSession)
	rg.DELETE("/batch/sessions/:id", h.DiscardSession)

	rg.POST("/batch/sessions/:id/file", h.UploadFile)
	rg.PUT("/batch/sessions/:id/rows/:loanId", h.EditRow)
	rg.PUT("/batch/sessions/:id/target", h.SetTarget)

	rg.GET("/batch/sessions/:id/totals", h.GetTotals)
	rg.POST("/batch/sessions/:id/submit", h.Submit)
}

// SetupAllocationRoutes sets up the manual payment-method allocation routes.
func SetupAllocationRoutes(rg *gin.RouterGroup) {
	h := handlers.NewAllocationHandler()

	rg.POST("/payments/allocations", h.ReconcileAllocations)
}

// SetupRefinanceRoutes sets up the refinancing simulation routes.
func SetupRefinanceRoutes(rg *gin.RouterGroup, ledger *services.LedgerService) {
	h := handlers.NewRefinanceHandler(ledger)

	rg.POST("/refinance/simulate", h.Simulate)
}
