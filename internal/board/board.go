// Package board holds the client-side state of the drag-and-drop pipeline
// board. Stage moves apply optimistically: the cached views change before
// the service answers, and a failure rolls the board back by invalidating
// the caches and refetching, so the displayed state converges to store
// truth within one round trip either way.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
)

// Service is the slice of the data service the board consumes
type Service interface {
	ListCandidates(ctx context.Context, params dto.ListCandidatesParams) (*dto.CandidatePage, error)
	UpdateCandidate(ctx context.Context, id string, req dto.UpdateCandidateRequest) (*domain.Candidate, error)
}

// Notifier surfaces mutation outcomes to the user
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// State of an in-flight stage transition
type State int

const (
	// StatePending means the optimistic value is displayed and the request
	// is still in flight.
	StatePending State = iota + 1
	// StateCommitted means the service confirmed; the optimistic value is
	// authoritative.
	StateCommitted
	// StateRolledBack means the service failed; the cached views were
	// invalidated and refetched from unchanged store state.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Transition tracks one candidate move from drag to reconciliation.
// Committed and RolledBack are terminal; a new drag starts a new Transition.
type Transition struct {
	CandidateID string
	From        string
	To          string

	mu    sync.Mutex
	state State
	done  chan struct{}
}

// State returns the current protocol state
func (t *Transition) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed once the transition reaches a terminal state
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the transition settles or ctx expires
func (t *Transition) Wait(ctx context.Context) (State, error) {
	select {
	case <-ctx.Done():
		return t.State(), ctx.Err()
	case <-t.done:
		return t.State(), nil
	}
}

func (t *Transition) settle(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	close(t.done)
}

// Board caches candidate pages keyed by their request parameter tuple and
// runs the optimistic stage-transition protocol against the service.
type Board struct {
	svc      Service
	notifier Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	query dto.ListCandidatesParams
	pages map[string]*dto.CandidatePage
}

// New creates a Board. A nil notifier logs outcomes instead of surfacing
// them.
func New(svc Service, notifier Notifier, logger *slog.Logger) *Board {
	if notifier == nil {
		notifier = &logNotifier{logger: logger}
	}
	return &Board{
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		pages:    make(map[string]*dto.CandidatePage),
	}
}

// SetQuery changes the current listing parameters. Completions of requests
// issued for any other parameter tuple are discarded when they land.
func (b *Board) SetQuery(params dto.ListCandidatesParams) {
	b.mu.Lock()
	b.query = params
	b.mu.Unlock()
}

// Refresh fetches the current query from the service and caches the page.
// If the query changed while the request was in flight, the stale response
// is dropped; the displayed data never regresses to superseded parameters.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	params := b.query
	b.mu.Unlock()

	page, err := b.svc.ListCandidates(ctx, params)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if params.Key() != b.query.Key() {
		b.logger.Debug("Discarding stale candidate page",
			slog.String("key", params.Key()),
		)
		return nil
	}
	b.pages[params.Key()] = page
	return nil
}

// Candidate returns the cached copy of a candidate, if any view holds one
func (b *Board) Candidate(id string) (*domain.Candidate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

// Page returns the cached page for a parameter tuple
func (b *Board) Page(params dto.ListCandidatesParams) (*dto.CandidatePage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	page, ok := b.pages[params.Key()]
	return page, ok
}

func (b *Board) findLocked(id string) (*domain.Candidate, bool) {
	for _, page := range b.pages {
		for i := range page.Data {
			if page.Data[i].ID == id {
				c := page.Data[i]
				return &c, true
			}
		}
	}
	return nil, false
}

// MoveCandidate starts a stage transition for a dropped card. The cached
// views change before the request is issued; reconciliation runs in the
// background and the returned Transition reports the outcome. A drop onto
// the candidate's current column short-circuits: no request is issued and
// the returned Transition is nil.
func (b *Board) MoveCandidate(ctx context.Context, id, toStage string) (*Transition, error) {
	if !domain.ValidStage(toStage) {
		return nil, fmt.Errorf("stage %q: %w", toStage, domain.ErrInvalidStage)
	}

	b.mu.Lock()
	current, ok := b.findLocked(id)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("candidate %s not in any cached view: %w", id, domain.ErrNotFound)
	}
	if current.Stage == toStage {
		b.mu.Unlock()
		return nil, nil
	}

	// Optimistic apply across every cached view holding this candidate.
	for _, page := range b.pages {
		for i := range page.Data {
			if page.Data[i].ID == id {
				page.Data[i].Stage = toStage
			}
		}
	}

	tr := &Transition{
		CandidateID: id,
		From:        current.Stage,
		To:          toStage,
		state:       StatePending,
		done:        make(chan struct{}),
	}
	b.mu.Unlock()

	b.logger.Info("Stage transition pending",
		slog.String("candidate_id", id),
		slog.String("from", tr.From),
		slog.String("to", tr.To),
	)

	go b.reconcile(ctx, tr)
	return tr, nil
}

func (b *Board) reconcile(ctx context.Context, tr *Transition) {
	stage := tr.To
	_, err := b.svc.UpdateCandidate(ctx, tr.CandidateID, dto.UpdateCandidateRequest{Stage: &stage})
	if err != nil {
		b.logger.Warn("Stage transition failed, rolling back",
			slog.String("candidate_id", tr.CandidateID),
			slog.String("error", err.Error()),
		)
		b.rollback(ctx, tr.CandidateID)
		b.notifier.Error("Failed to move candidate. Reverting.")
		tr.settle(StateRolledBack)
		return
	}

	b.notifier.Success("Candidate moved")
	tr.settle(StateCommitted)
}

// rollback drops every cached view referencing the candidate and refetches
// the current query. The store never applied the change, so refetching is
// the whole undo; no reverse mutation is needed.
func (b *Board) rollback(ctx context.Context, candidateID string) {
	b.mu.Lock()
	for key, page := range b.pages {
		for i := range page.Data {
			if page.Data[i].ID == candidateID {
				delete(b.pages, key)
				break
			}
		}
	}
	b.mu.Unlock()

	if err := b.Refresh(ctx); err != nil {
		b.logger.Error("Rollback refetch failed",
			slog.String("candidate_id", candidateID),
			slog.String("error", err.Error()),
		)
	}
}

// logNotifier is the fallback notification surface
type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) Success(msg string) { n.logger.Info(msg) }
func (n *logNotifier) Error(msg string)   { n.logger.Warn(msg) }
