package memory

import (
	"context"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

func (s *implStore) GetProfile(ctx context.Context, id string) (model.PatientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return model.PatientProfile{}, store.Wrap("get profile", store.ErrProfileNotFound)
	}
	return p.Clone(), nil
}

func (s *implStore) SaveProfile(ctx context.Context, p model.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.ID] = p.Clone()
	return nil
}
