package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/shared/db"
)

const jobColumns = "id, title, slug, status, tags, sort_order, created_at"

// jobSortColumns whitelists the sortable fields of the job listing.
var jobSortColumns = map[string]string{
	"order":     "sort_order",
	"title":     "title",
	"slug":      "slug",
	"status":    "status",
	"createdAt": "created_at",
}

// JobFilter narrows and orders a job listing. Sort is a logical field name
// ("order", "title", "slug", "status", "createdAt"); unknown names fall back
// to "order".
type JobFilter struct {
	Status string
	Sort   string
}

// JobPatch carries a partial job update; nil fields are left untouched.
type JobPatch struct {
	Title  *string
	Status *string
	Tags   *domain.StringList
	Order  *int
}

// AddJob inserts a job, failing with domain.ErrDuplicateKey if the id or
// slug is already taken.
func (s *Store) AddJob(ctx context.Context, job *domain.Job) error {
	query := s.q.Rebind(`
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := s.q.ExecContext(ctx, query,
		job.ID, job.Title, job.Slug, job.Status, job.Tags, job.Order, job.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("job %s: %w", job.ID, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to add job: %w", err)
	}

	return nil
}

// BulkAddJobs inserts jobs one by one; run it inside InTx so a duplicate
// fails the whole batch.
func (s *Store) BulkAddJobs(ctx context.Context, jobs []domain.Job) error {
	for i := range jobs {
		if err := s.AddJob(ctx, &jobs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetJob fetches one job by id
func (s *Store) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	query := s.q.Rebind(`SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`)

	if err := s.q.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// JobSlugExists reports whether any job already owns the slug
func (s *Store) JobSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	query := s.q.Rebind(`SELECT COUNT(*) FROM jobs WHERE slug = ?`)

	if err := s.q.GetContext(ctx, &count, query, slug); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return count > 0, nil
}

// CountJobs returns the total number of stored jobs
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := s.q.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// ListJobs returns every job matching the filter, fully sorted. The id
// tiebreak keeps the order deterministic when sort values collide, which
// callers rely on for stable pagination.
func (s *Store) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []interface{}{}

	var conds []string
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	sortCol, ok := jobSortColumns[filter.Sort]
	if !ok {
		sortCol = "sort_order"
	}
	query += fmt.Sprintf(" ORDER BY %s ASC, id ASC", sortCol)

	var jobs []domain.Job
	if err := s.q.SelectContext(ctx, &jobs, s.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJob merges the patch into the stored job and returns the result.
// Field values are taken as-is; callers own semantic validation.
func (s *Store) UpdateJob(ctx context.Context, id string, patch JobPatch) (*domain.Job, error) {
	var (
		sets []string
		args []interface{}
	)

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, *patch.Tags)
	}
	if patch.Order != nil {
		sets = append(sets, "sort_order = ?")
		args = append(args, *patch.Order)
	}

	if len(sets) == 0 {
		return s.GetJob(ctx, id)
	}

	query := s.q.Rebind("UPDATE jobs SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	args = append(args, id)

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}

	return s.GetJob(ctx, id)
}
