package domain

import "errors"

var (
	// ErrNotFound is returned when a record cannot be found by id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when adding a record whose id (or other
	// unique key) is already present.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidStage is returned when a candidate update carries a stage
	// outside the six-value enumeration.
	ErrInvalidStage = errors.New("invalid candidate stage")
)
