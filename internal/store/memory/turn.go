package memory

import (
	"context"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

func (s *implStore) Append(ctx context.Context, t model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[t.SessionID]; !ok {
		return store.Wrap("append", store.ErrSessionNotFound)
	}
	turns := s.turns[t.SessionID]
	if t.Sequence <= 0 {
		return store.Wrap("append", store.ErrSequenceConflict)
	}
	if n := len(turns); n > 0 && t.Sequence <= turns[n-1].Sequence {
		return store.Wrap("append", store.ErrSequenceConflict)
	}
	s.turns[t.SessionID] = append(turns, t)
	return nil
}

func (s *implStore) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, store.Wrap("history", store.ErrSessionNotFound)
	}
	turns := s.turns[sessionID]
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *implStore) LastSequence(ctx context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return 0, store.Wrap("last sequence", store.ErrSessionNotFound)
	}
	turns := s.turns[sessionID]
	if len(turns) == 0 {
		return 0, nil
	}
	return turns[len(turns)-1].Sequence, nil
}
