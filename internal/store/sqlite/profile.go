package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

// Profiles are stored as one JSON document per row.
func (s *implStore) GetProfile(ctx context.Context, id string) (model.PatientProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PatientProfile{}, store.Wrap("get profile", store.ErrProfileNotFound)
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("GetProfile"), err)
		return model.PatientProfile{}, store.Wrap("get profile", err)
	}

	var p model.PatientProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return model.PatientProfile{}, store.Wrap("get profile", err)
	}
	return p, nil
}

func (s *implStore) SaveProfile(ctx context.Context, p model.PatientProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return store.Wrap("save profile", err)
	}

	const query = `
		INSERT INTO profiles (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, p.ID, string(data), time.Now().UnixNano()); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("SaveProfile"), err)
		return store.Wrap("save profile", err)
	}
	return nil
}
