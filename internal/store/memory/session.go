package memory

import (
	"context"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

func (s *implStore) SaveSession(ctx context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return store.Wrap("save session", store.ErrSessionExists)
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

func (s *implStore) GetSession(ctx context.Context, id string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, store.Wrap("get session", store.ErrSessionNotFound)
	}
	return copySession(sess), nil
}

func (s *implStore) UpdateSession(ctx context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return store.Wrap("update session", store.ErrSessionNotFound)
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

func copySession(sess model.Session) model.Session {
	if sess.EndedAt != nil {
		ended := *sess.EndedAt
		sess.EndedAt = &ended
	}
	return sess
}
