package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/store"
)

// Assessments services the assessment operations
type Assessments struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAssessments creates an Assessments handler
func NewAssessments(deps *Dependencies) *Assessments {
	return &Assessments{
		store:  deps.Store,
		logger: deps.Logger,
	}
}

// GetByJob returns the single assessment of a job, or nil when the job has
// none yet. A missing assessment is an empty result, not an error.
func (h *Assessments) GetByJob(ctx context.Context, jobID string) (*domain.Assessment, error) {
	a, err := h.store.GetAssessmentByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// UpsertByJob maintains the one-assessment-per-job discipline: an existing
// assessment is merge-updated in place with its identifier preserved, and a
// job without one gets a fresh assessment.
func (h *Assessments) UpsertByJob(ctx context.Context, jobID string, req dto.UpsertAssessmentRequest) (*domain.Assessment, error) {
	sections := domain.SectionList{}
	if req.Sections != nil {
		sections = domain.SectionList(req.Sections)
	}

	existing, err := h.store.GetAssessmentByJob(ctx, jobID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		updated, err := h.store.UpdateAssessment(ctx, existing.ID, store.AssessmentPatch{
			Title:    &req.Title,
			Sections: &sections,
		})
		if err != nil {
			return nil, err
		}

		h.logger.Info("Assessment updated",
			slog.String("assessment_id", updated.ID),
			slog.String("job_id", jobID),
		)
		return updated, nil
	}

	a := &domain.Assessment{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Title:     req.Title,
		Sections:  sections,
		CreatedAt: time.Now(),
	}
	if err := h.store.AddAssessment(ctx, a); err != nil {
		return nil, err
	}

	h.logger.Info("Assessment created",
		slog.String("assessment_id", a.ID),
		slog.String("job_id", jobID),
	)
	return a, nil
}
