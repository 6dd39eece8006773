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

const candidateColumns = "id, name, email, stage, job_id, created_at"

// CandidateFilter narrows a candidate listing. Results always come back
// newest first (created_at DESC, id DESC).
type CandidateFilter struct {
	Stage string
	JobID string
}

// CandidatePatch carries a partial candidate update; nil fields are left
// untouched.
type CandidatePatch struct {
	Name  *string
	Email *string
	Stage *string
	JobID *string
}

// AddCandidate inserts a candidate, failing with domain.ErrDuplicateKey on
// an id collision.
func (s *Store) AddCandidate(ctx context.Context, c *domain.Candidate) error {
	query := s.q.Rebind(`
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := s.q.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Stage, c.JobID, c.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("candidate %s: %w", c.ID, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to add candidate: %w", err)
	}

	return nil
}

// BulkAddCandidates inserts candidates one by one; run it inside InTx so a
// duplicate fails the whole batch.
func (s *Store) BulkAddCandidates(ctx context.Context, candidates []domain.Candidate) error {
	for i := range candidates {
		if err := s.AddCandidate(ctx, &candidates[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetCandidate fetches one candidate by id
func (s *Store) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	var c domain.Candidate
	query := s.q.Rebind(`SELECT ` + candidateColumns + ` FROM candidates WHERE id = ?`)

	if err := s.q.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("candidate %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	return &c, nil
}

// ListCandidates returns every candidate matching the filter, newest first
func (s *Store) ListCandidates(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	args := []interface{}{}

	var conds []string
	if filter.Stage != "" {
		conds = append(conds, "stage = ?")
		args = append(args, filter.Stage)
	}
	if filter.JobID != "" {
		conds = append(conds, "job_id = ?")
		args = append(args, filter.JobID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	var candidates []domain.Candidate
	if err := s.q.SelectContext(ctx, &candidates, s.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	return candidates, nil
}

// UpdateCandidate merges the patch into the stored candidate and returns
// the result. Stage values are taken as-is; the handler validates them.
func (s *Store) UpdateCandidate(ctx context.Context, id string, patch CandidatePatch) (*domain.Candidate, error) {
	var (
		sets []string
		args []interface{}
	)

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.Stage != nil {
		sets = append(sets, "stage = ?")
		args = append(args, *patch.Stage)
	}
	if patch.JobID != nil {
		sets = append(sets, "job_id = ?")
		args = append(args, *patch.JobID)
	}

	if len(sets) == 0 {
		return s.GetCandidate(ctx, id)
	}

	query := s.q.Rebind("UPDATE candidates SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	args = append(args, id)

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("candidate %s: %w", id, domain.ErrNotFound)
	}

	return s.GetCandidate(ctx, id)
}
