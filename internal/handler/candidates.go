package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/store"
)

// Candidates services the candidate operations
type Candidates struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCandidates creates a Candidates handler
func NewCandidates(deps *Dependencies) *Candidates {
	return &Candidates{
		store:  deps.Store,
		logger: deps.Logger,
	}
}

// List filters, searches and pages the candidate listing, newest first
func (h *Candidates) List(ctx context.Context, params dto.ListCandidatesParams) (*dto.CandidatePage, error) {
	params.Normalize()

	candidates, err := h.store.ListCandidates(ctx, store.CandidateFilter{
		Stage: params.Stage,
	})
	if err != nil {
		return nil, err
	}

	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		filtered := candidates[:0]
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Name), needle) ||
				strings.Contains(strings.ToLower(c.Email), needle) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	total := len(candidates)
	start, end := pageBounds(total, params.Page, params.PageSize)

	return &dto.CandidatePage{
		Data:     candidates[start:end],
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// Update merges the supplied fields into the stored candidate. Whenever the
// request carries a stage, exactly one timeline entry is appended with that
// stage and the current timestamp, even when the value matches the current
// stage. The merge and the append commit together.
func (h *Candidates) Update(ctx context.Context, id string, req dto.UpdateCandidateRequest) (*domain.Candidate, error) {
	if req.Stage != nil && !domain.ValidStage(*req.Stage) {
		return nil, fmt.Errorf("stage %q: %w", *req.Stage, domain.ErrInvalidStage)
	}

	var updated *domain.Candidate
	err := h.store.InTx(ctx, func(tx *store.Store) error {
		var err error
		updated, err = tx.UpdateCandidate(ctx, id, store.CandidatePatch{
			Name:  req.Name,
			Email: req.Email,
			Stage: req.Stage,
			JobID: req.JobID,
		})
		if err != nil {
			return err
		}

		if req.Stage == nil {
			return nil
		}

		return tx.AddTimelineEntry(ctx, &domain.TimelineEntry{
			ID:          uuid.NewString(),
			CandidateID: id,
			Stage:       *req.Stage,
			Timestamp:   time.Now(),
			Notes:       fmt.Sprintf("Moved to %s stage", *req.Stage),
		})
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("Candidate updated",
		slog.String("candidate_id", id),
		slog.Bool("stage_changed", req.Stage != nil),
	)
	return updated, nil
}

// Timeline returns a candidate's timeline entries, oldest first
func (h *Candidates) Timeline(ctx context.Context, candidateID string) ([]domain.TimelineEntry, error) {
	return h.store.ListTimeline(ctx, candidateID)
}
