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

const assessmentColumns = "id, job_id, title, sections, created_at"

// AssessmentPatch carries a partial assessment update; nil fields are left
// untouched. The id and job binding of an assessment never change.
type AssessmentPatch struct {
	Title    *string
	Sections *domain.SectionList
}

// AddAssessment inserts an assessment, failing with domain.ErrDuplicateKey
// on an id collision.
func (s *Store) AddAssessment(ctx context.Context, a *domain.Assessment) error {
	query := s.q.Rebind(`
		INSERT INTO assessments (` + assessmentColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := s.q.ExecContext(ctx, query,
		a.ID, a.JobID, a.Title, a.Sections, a.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("assessment %s: %w", a.ID, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to add assessment: %w", err)
	}

	return nil
}

// BulkAddAssessments inserts assessments one by one; run it inside InTx so
// a duplicate fails the whole batch.
func (s *Store) BulkAddAssessments(ctx context.Context, assessments []domain.Assessment) error {
	for i := range assessments {
		if err := s.AddAssessment(ctx, &assessments[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetAssessmentByJob returns the assessment bound to jobID, or
// domain.ErrNotFound when the job has none yet.
func (s *Store) GetAssessmentByJob(ctx context.Context, jobID string) (*domain.Assessment, error) {
	var a domain.Assessment
	query := s.q.Rebind(`
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE job_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`)

	if err := s.q.GetContext(ctx, &a, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment for job %s: %w", jobID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return &a, nil
}

// UpdateAssessment merges the patch into the stored assessment, preserving
// its identifier, and returns the result.
func (s *Store) UpdateAssessment(ctx context.Context, id string, patch AssessmentPatch) (*domain.Assessment, error) {
	var (
		sets []string
		args []interface{}
	)

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Sections != nil {
		sets = append(sets, "sections = ?")
		args = append(args, *patch.Sections)
	}

	if len(sets) == 0 {
		return s.getAssessment(ctx, id)
	}

	query := s.q.Rebind("UPDATE assessments SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	args = append(args, id)

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
	}

	return s.getAssessment(ctx, id)
}

func (s *Store) getAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	var a domain.Assessment
	query := s.q.Rebind(`SELECT ` + assessmentColumns + ` FROM assessments WHERE id = ?`)

	if err := s.q.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return &a, nil
}

// CountAssessmentsByJob counts assessments bound to one job; the upsert
// discipline keeps this at zero or one.
func (s *Store) CountAssessmentsByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	query := s.q.Rebind(`SELECT COUNT(*) FROM assessments WHERE job_id = ?`)

	if err := s.q.GetContext(ctx, &count, query, jobID); err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	return count, nil
}
