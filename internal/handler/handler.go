// Package handler implements the per-entity request operations against the
// entity store. Handlers are plain objects, transport-free: the simulated
// service dispatches to them, and tests can call them directly.
package handler

import (
	"log/slog"

	"github.com/talentflow/talentflow/internal/store"
)

// Dependencies holds everything the handlers need
type Dependencies struct {
	Store  *store.Store
	Logger *slog.Logger
}

// pageBounds clips a 1-based page window to [0, total)
func pageBounds(total, page, pageSize int) (start, end int) {
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
