package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/store"
)

// Jobs services the job operations
type Jobs struct {
	store  *store.Store
	logger *slog.Logger
}

// NewJobs creates a Jobs handler
func NewJobs(deps *Dependencies) *Jobs {
	return &Jobs{
		store:  deps.Store,
		logger: deps.Logger,
	}
}

// List filters, searches, sorts and pages the job listing. Status and sort
// are applied by the store; the substring search runs here because it spans
// the title and every tag.
func (h *Jobs) List(ctx context.Context, params dto.ListJobsParams) (*dto.JobPage, error) {
	params.Normalize()

	jobs, err := h.store.ListJobs(ctx, store.JobFilter{
		Status: params.Status,
		Sort:   params.Sort,
	})
	if err != nil {
		return nil, err
	}

	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		filtered := jobs[:0]
		for _, job := range jobs {
			if jobMatches(&job, needle) {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}

	total := len(jobs)
	start, end := pageBounds(total, params.Page, params.PageSize)

	return &dto.JobPage{
		Data:     jobs[start:end],
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func jobMatches(job *domain.Job, needle string) bool {
	if strings.Contains(strings.ToLower(job.Title), needle) {
		return true
	}
	for _, tag := range job.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Create adds a job with a fresh id and a slug derived from the title. The
// slug stays unique even when the same title is created repeatedly.
func (h *Jobs) Create(ctx context.Context, req dto.CreateJobRequest) (*domain.Job, error) {
	status := req.Status
	if status == "" {
		status = domain.JobStatusActive
	}

	tags := domain.StringList{}
	if req.Tags != nil {
		tags = domain.StringList(req.Tags)
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	job := &domain.Job{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Status:    status,
		Tags:      tags,
		Order:     order,
		CreatedAt: time.Now(),
	}

	base := domain.Slugify(req.Title)
	for attempt := 0; attempt < 100; attempt++ {
		slug := base
		if attempt > 0 {
			slug = fmt.Sprintf("%s-%d", base, attempt+1)
		}

		taken, err := h.store.JobSlugExists(ctx, slug)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		job.Slug = slug
		if err := h.store.AddJob(ctx, job); err != nil {
			// A concurrent create may have taken the slug between the
			// check and the insert; move on to the next suffix.
			if errors.Is(err, domain.ErrDuplicateKey) {
				continue
			}
			return nil, err
		}

		h.logger.Info("Job created",
			slog.String("job_id", job.ID),
			slog.String("slug", job.Slug),
		)
		return job, nil
	}

	return nil, fmt.Errorf("could not allocate a unique slug for %q", req.Title)
}

// Update merges the supplied fields into the stored job. The slug is never
// touched: it is stable once assigned.
func (h *Jobs) Update(ctx context.Context, id string, req dto.UpdateJobRequest) (*domain.Job, error) {
	patch := store.JobPatch{
		Title:  req.Title,
		Status: req.Status,
		Order:  req.Order,
	}
	if req.Tags != nil {
		tags := domain.StringList(*req.Tags)
		patch.Tags = &tags
	}

	job, err := h.store.UpdateJob(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Job updated",
		slog.String("job_id", job.ID),
	)
	return job, nil
}
