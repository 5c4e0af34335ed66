// Package engine implements the five externally observable operations
// (snapshot, list, restore, prune, check) layered on top of internal/store
// and internal/content.
package engine

import (
	"backupctl/internal/content"
	"backupctl/internal/store"
	"backupctl/internal/walk"
)

// Engine is the orchestration layer that coordinates the store and a
// filesystem walker to perform the five core operations.
type Engine struct {
	store  *store.Store
	walker walk.Walker
	clock  Clock
	logger Logger

	// MaxContentSize caps the size of an individual file snapshot will
	// accept; larger files are skipped and reported as warnings.
	MaxContentSize int64
}

// New creates an Engine with the provided dependencies.
func New(s *store.Store, w walk.Walker, clock Clock, logger Logger) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Engine{
		store:          s,
		walker:         w,
		clock:          clock,
		logger:         logger,
		MaxContentSize: content.DefaultMaxSize,
	}
}

// Store exposes the underlying store, e.g. for callers that need
// Store.Close or Store.Path outside of an engine operation.
func (e *Engine) Store() *store.Store { return e.store }
