// Package memory is an in-process Store. Data lives as long as the process.
package memory

import (
	"context"
	"sync"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

type implStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	turns    map[string][]model.Turn
	profiles map[string]model.PatientProfile
}

// New creates an empty in-memory Store.
func New() store.Store {
	return &implStore{
		sessions: make(map[string]model.Session),
		turns:    make(map[string][]model.Turn),
		profiles: make(map[string]model.PatientProfile),
	}
}

func (s *implStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *implStore) Close() error { return nil }
