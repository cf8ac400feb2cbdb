// Package store holds ingested narrative passages behind a single
// abstraction so the pipeline never branches on the backing engine. Two
// implementations exist: an in-memory table (the default) and a SQLite
// database for runs that should survive the process.
package store

import (
	"context"

	"github.com/ppiankov/fabula/internal/model"
)

// Store is a passage collection keyed by narrative name. Implementations
// must treat a stored passage set as immutable: Put replaces, readers never
// mutate.
type Store interface {
	// Put stores the passage set for a narrative, replacing any previous set.
	Put(ctx context.Context, narrative string, passages []model.Passage) error

	// Passages returns the stored passage set ordered by position, or nil
	// when the narrative is unknown.
	Passages(ctx context.Context, narrative string) ([]model.Passage, error)

	Close() error
}

// New creates a store for the configured backend
func New(cfg model.StoreConfig) (Store, error) {
	if cfg.Backend == "sqlite" {
		return NewSQLiteStore(cfg.Path)
	}
	return NewMemoryStore(), nil
}
