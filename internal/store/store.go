package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/talentflow/talentflow/shared/db"
)

// querier is satisfied by both *sqlx.DB and *sqlx.Tx, so every store method
// runs the same inside or outside a transaction.
type querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store owns all persisted records. It enforces per-record key uniqueness
// and nothing across entities: deleting or archiving a job does not cascade,
// and callers are responsible for referential sanity.
type Store struct {
	q  querier
	db *sqlx.DB
}

// New creates a Store over an open database client
func New(client *db.Client) *Store {
	d := client.GetDB()
	return &Store{q: d, db: d}
}

// InTx runs fn against a transaction-bound Store. Any error rolls the whole
// transaction back; seeding relies on this for all-or-nothing inserts.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Store{q: tx, db: s.db}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
