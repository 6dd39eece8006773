package store

import (
	"context"
	"fmt"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/shared/db"
)

const timelineColumns = "id, candidate_id, stage, timestamp, notes"

// AddTimelineEntry appends one entry. The timeline is append-only; there is
// no update or delete.
func (s *Store) AddTimelineEntry(ctx context.Context, e *domain.TimelineEntry) error {
	query := s.q.Rebind(`
		INSERT INTO timeline (` + timelineColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := s.q.ExecContext(ctx, query,
		e.ID, e.CandidateID, e.Stage, e.Timestamp, e.Notes)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("timeline entry %s: %w", e.ID, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to add timeline entry: %w", err)
	}

	return nil
}

// BulkAddTimeline appends entries one by one; run it inside InTx so a
// duplicate fails the whole batch.
func (s *Store) BulkAddTimeline(ctx context.Context, entries []domain.TimelineEntry) error {
	for i := range entries {
		if err := s.AddTimelineEntry(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListTimeline returns every entry for a candidate, oldest first
func (s *Store) ListTimeline(ctx context.Context, candidateID string) ([]domain.TimelineEntry, error) {
	query := s.q.Rebind(`
		SELECT ` + timelineColumns + `
		FROM timeline
		WHERE candidate_id = ?
		ORDER BY timestamp ASC, id ASC
	`)

	var entries []domain.TimelineEntry
	if err := s.q.SelectContext(ctx, &entries, query, candidateID); err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}

	return entries, nil
}

// CountTimeline returns the number of entries for a candidate
func (s *Store) CountTimeline(ctx context.Context, candidateID string) (int, error) {
	var count int
	query := s.q.Rebind(`SELECT COUNT(*) FROM timeline WHERE candidate_id = ?`)

	if err := s.q.GetContext(ctx, &count, query, candidateID); err != nil {
		return 0, fmt.Errorf("failed to count timeline: %w", err)
	}

	return count, nil
}
