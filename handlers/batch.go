package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/credline/backoffice-api/models"
	"github.com/credline/backoffice-api/services"
	"github.com/credline/backoffice-api/utils"
)

type BatchHandler struct {
	Store *services.SessionStore
}

func NewBatchHandler(store *services.SessionStore) *BatchHandler {
	return &BatchHandler{Store: store}
}

// OpenSession loads the candidate loans for a criterion and opens a batch
// session over them.
func (h *BatchHandler) OpenSession(c *gin.Context) {
	var criterion models.QueryCriterion
	if err := c.ShouldBindJSON(&criterion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !criterion.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide exactly one of agreement_id, employer_document or borrower_document"})
		return
	}

	session, err := h.Store.Open(c.Request.Context(), criterion)
	if err != nil {
		utils.Errorf("Failed to open batch session: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load candidate loans"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession returns the session as it stands.
func (h *BatchHandler) GetSession(c *gin.Context) {
	session, err := h.Store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// DiscardSession drops a session, e.g. when the operator changes the query
// criterion.
func (h *BatchHandler) DiscardSession(c *gin.Context) {
	h.Store.Discard(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Session discarded"})
}

// UploadFile applies a "credit number → amount" collection file to the
// session. Accepts a multipart upload under "file" or the raw request body.
func (h *BatchHandler) UploadFile(c *gin.Context) {
	content, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read batch file"})
		return
	}
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Batch file is empty"})
		return
	}

	result, err := h.Store.ApplyFile(c.Param("id"), content)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EditRow distributes a manually entered amount against one row's balance.
func (h *BatchHandler) EditRow(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Store.EditRow(c.Param("id"), c.Param("loanId"), req.Amount)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SetTarget sets the target collection amount for the session.
func (h *BatchHandler) SetTarget(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Store.SetTarget(c.Param("id"), req.Amount)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetTotals returns the reconciliation result for the session.
func (h *BatchHandler) GetTotals(c *gin.Context) {
	totals, err := h.Store.Totals(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Submit forwards the reconciled batch to the ledger. Blocked with a
// validation response while the totals are off by more than one cent.
func (h *BatchHandler) Submit(c *gin.Context) {
	result, err := h.Store.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotReconciled) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func readUpload(c *gin.Context) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, services.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate row not found"})
	case errors.Is(err, services.ErrSessionSubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Session already submitted"})
	case errors.Is(err, services.ErrEmptyAmount),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrNonPositiveAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.Errorf("Batch operation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Batch operation failed"})
	}
}
