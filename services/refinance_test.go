package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credline/backoffice-api/models"
)

func TestRefinanceSimulateAggregatesBalances(t *testing.T) {
	var simulatePayload map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/loans/loan-1/balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"current_balance": "80.00"})
	})
	mux.HandleFunc("/loans/loan-2/balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"current_balance": "200.505"})
	})
	mux.HandleFunc("/refinancing/simulate", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&simulatePayload))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"aggregated_principal": simulatePayload["aggregated_principal"],
			"installments":         24,
			"installment_amount":   "14.75",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	service := NewRefinanceService(&LedgerService{BaseURL: server.URL, Client: &http.Client{Timeout: 5 * time.Second}})

	simulation, err := service.Simulate(context.Background(), models.RefinanceRequest{
		LoanIDs:      []string{"loan-1", "loan-2"},
		Installments: 24,
		FirstDueDate: "2026-10-05",
	})
	require.NoError(t, err)

	// 80.00 + round2(200.505) = 280.51, rounded per addition
	assert.Equal(t, "280.51", simulatePayload["aggregated_principal"])
	assert.Equal(t, "280.51", simulation.AggregatedPrincipal.StringFixed(2))
	assert.Equal(t, 24, simulation.Installments)
}

func TestRefinanceSimulateAllOrNothing(t *testing.T) {
	simulateCalled := false

	mux := http.NewServeMux()
	mux.HandleFunc("/loans/loan-1/balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"current_balance": "80.00"})
	})
	mux.HandleFunc("/loans/loan-2/balance", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/refinancing/simulate", func(w http.ResponseWriter, r *http.Request) {
		simulateCalled = true
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	service := NewRefinanceService(&LedgerService{BaseURL: server.URL, Client: &http.Client{Timeout: 5 * time.Second}})

	_, err := service.Simulate(context.Background(), models.RefinanceRequest{
		LoanIDs: []string{"loan-1", "loan-2"},
	})
	assert.Error(t, err)
	assert.False(t, simulateCalled, "a failed balance lookup must stop the simulation")
}

func TestRefinanceSimulateRequiresLoans(t *testing.T) {
	service := NewRefinanceService(NewLedgerService())

	_, err := service.Simulate(context.Background(), models.RefinanceRequest{})
	assert.ErrorIs(t, err, ErrNoLoansSelected)
}
