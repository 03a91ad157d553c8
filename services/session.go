package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/credline/backoffice-api/models"
	"github.com/credline/backoffice-api/utils"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionSubmitted = errors.New("session already submitted")
	ErrRowNotFound      = errors.New("candidate row not found")
	ErrNotReconciled    = errors.New("totals do not reconcile with the target amount")
)

// ApplyFileResult is what a file upload reports back to the operator.
type ApplyFileResult struct {
	Session       *models.BatchSession `json:"session"`
	MatchedCount  int                  `json:"matched_count"`
	UnmatchedKeys []string             `json:"unmatched_keys"`
	ParsedLines   int                  `json:"parsed_lines"`
	SkippedLines  int                  `json:"skipped_lines"`
	HeaderSkipped bool                 `json:"header_skipped"`
}

// SessionStore owns every live batch session. Sessions are transient,
// in-memory only: a submitted or discarded session is gone, and the ledger
// backend remains the system of record throughout.
//
// All mutations funnel through the store's mutex; the engine functions the
// store calls are pure and operate on row copies, so no session state is
// ever aliased outside the lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.BatchSession
	ledger   *LedgerService
	notify   func(sessionID string, state models.SessionState)
}

func NewSessionStore(ledger *LedgerService) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.BatchSession),
		ledger:   ledger,
	}
}

// SetNotify registers a callback invoked after every state transition,
// outside the store lock. Used for the websocket push.
func (st *SessionStore) SetNotify(fn func(sessionID string, state models.SessionState)) {
	st.notify = fn
}

// Open creates a session for a query criterion: candidates are fetched and
// their balances loaded concurrently before anything becomes visible. A
// failed load leaves no session behind.
func (st *SessionStore) Open(ctx context.Context, criterion models.QueryCriterion) (*models.BatchSession, error) {
	rows, err := st.ledger.FetchCandidateRows(ctx, criterion)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.BatchSession{
		ID:        uuid.New().String(),
		Criterion: criterion,
		State:     models.SessionQueried,
		Rows:      rows,
		CreatedAt: now,
		UpdatedAt: now,
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	utils.Infof("📋 Session %s opened with %d candidate rows", session.ID, len(rows))
	st.emit(session.ID, session.State)

	return snapshot(session), nil
}

// Get returns a copy of the session.
func (st *SessionStore) Get(id string) (*models.BatchSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// ApplyFile parses an uploaded batch file and distributes its amounts over
// the session's rows. Rows untouched by the file keep their current
// assignments; keys without a matching row come back as warnings.
func (st *SessionStore) ApplyFile(id, content string) (*ApplyFileResult, error) {
	parsed := ParseBatch(content)

	st.mu.Lock()
	session, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.State == models.SessionSubmitted {
		st.mu.Unlock()
		return nil, ErrSessionSubmitted
	}

	outcome := ApplyBatch(session.Rows, parsed.Entries)
	session.Rows = outcome.Rows
	state := st.refreshLocked(session)
	result := &ApplyFileResult{
		Session:       snapshot(session),
		MatchedCount:  outcome.MatchedCount,
		UnmatchedKeys: outcome.UnmatchedKeys,
		ParsedLines:   parsed.ParsedLines,
		SkippedLines:  parsed.SkippedLines,
		HeaderSkipped: parsed.HeaderSkipped,
	}
	st.mu.Unlock()

	if len(outcome.UnmatchedKeys) > 0 {
		utils.Warnf("⚠️ Session %s: %d batch keys without a candidate row", id, len(outcome.UnmatchedKeys))
	}
	st.emit(id, state)

	return result, nil
}

// EditRow re-distributes a manually entered amount against one row's
// balance. The raw value goes through the same normalizer as file input.
func (st *SessionStore) EditRow(id, loanID, rawAmount string) (*models.BatchSession, error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", rawAmount, err)
	}

	st.mu.Lock()
	session, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.State == models.SessionSubmitted {
		st.mu.Unlock()
		return nil, ErrSessionSubmitted
	}

	idx := -1
	for i := range session.Rows {
		if session.Rows[i].LoanID == loanID {
			idx = i
			break
		}
	}
	if idx < 0 {
		st.mu.Unlock()
		return nil, ErrRowNotFound
	}

	rows := make([]models.CandidateRow, len(session.Rows))
	copy(rows, session.Rows)
	dist := Distribute(amount, rows[idx].Balance)
	rows[idx].AppliedAmount = dist.Applied
	rows[idx].OverpaidAmount = dist.Overpaid
	session.Rows = rows

	state := st.refreshLocked(session)
	result := snapshot(session)
	st.mu.Unlock()

	st.emit(id, state)
	return result, nil
}

// SetTarget sets the target collection amount from free-text input.
func (st *SessionStore) SetTarget(id, rawAmount string) (*models.BatchSession, error) {
	target, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount %q: %w", rawAmount, err)
	}

	st.mu.Lock()
	session, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.State == models.SessionSubmitted {
		st.mu.Unlock()
		return nil, ErrSessionSubmitted
	}

	session.TargetAmount = target
	state := st.refreshLocked(session)
	result := snapshot(session)
	st.mu.Unlock()

	st.emit(id, state)
	return result, nil
}

// Totals computes the reconciliation result for the session as it stands.
func (st *SessionStore) Totals(id string) (models.ReconciliationResult, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	if !ok {
		return models.ReconciliationResult{}, ErrSessionNotFound
	}
	return ComputeTotals(session.Rows, session.TargetAmount), nil
}

// Submit sends the reconciled batch to the ledger. The gate is re-checked
// here: within one cent of the target and at least one assigned row. On
// success the session is terminal and its rows are cleared.
func (st *SessionStore) Submit(ctx context.Context, id string) (*models.BatchSubmitResult, error) {
	st.mu.Lock()
	session, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.State == models.SessionSubmitted {
		st.mu.Unlock()
		return nil, ErrSessionSubmitted
	}

	totals := ComputeTotals(session.Rows, session.TargetAmount)
	if !IsSubmittable(totals) {
		st.mu.Unlock()
		return nil, fmt.Errorf("%w: difference is %s", ErrNotReconciled, totals.Difference.StringFixed(2))
	}
	submission := snapshot(session)

	// Mark terminal before the ledger call, still under the lock. A
	// concurrent submit of the same session must read Submitted and stop;
	// the ledger sees each batch at most once.
	prevState := session.State
	session.State = models.SessionSubmitted
	st.mu.Unlock()

	result, err := st.ledger.SubmitBatch(ctx, submission)
	if err != nil {
		st.mu.Lock()
		if session, ok := st.sessions[id]; ok && session.State == models.SessionSubmitted {
			session.State = prevState
		}
		st.mu.Unlock()
		return nil, fmt.Errorf("submitting batch: %w", err)
	}

	st.mu.Lock()
	if session, ok := st.sessions[id]; ok {
		session.Rows = nil
		session.UpdatedAt = time.Now()
	}
	st.mu.Unlock()

	utils.Infof("✅ Session %s submitted: %d rows processed", id, result.ProcessedRows)
	st.emit(id, models.SessionSubmitted)

	return result, nil
}

// Discard drops a session, e.g. when the operator changes the query
// criterion and the old candidate list no longer applies.
func (st *SessionStore) Discard(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// refreshLocked recomputes the state after an edit: back to Distributed, or
// on to Reconciled when the totals already balance. Caller holds the lock.
func (st *SessionStore) refreshLocked(session *models.BatchSession) models.SessionState {
	totals := ComputeTotals(session.Rows, session.TargetAmount)
	if IsSubmittable(totals) {
		session.State = models.SessionReconciled
	} else {
		session.State = models.SessionDistributed
	}
	session.UpdatedAt = time.Now()
	return session.State
}

func (st *SessionStore) emit(id string, state models.SessionState) {
	if st.notify != nil {
		st.notify(id, state)
	}
}

// snapshot copies a session so callers never alias store-owned state.
func snapshot(session *models.BatchSession) *models.BatchSession {
	copied := *session
	copied.Rows = make([]models.CandidateRow, len(session.Rows))
	copy(copied.Rows, session.Rows)
	return &copied
}
