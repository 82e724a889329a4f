package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

func (s *implStore) SaveSession(ctx context.Context, sess model.Session) error {
	const query = `
		INSERT INTO sessions (id, number, profile_id, started_at, duration_ns, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.Number, sess.ProfileID, sess.StartedAt.UnixNano(), int64(sess.Duration), endedAt(sess))
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("SaveSession"), err)
		return store.Wrap("save session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.Wrap("save session", store.ErrSessionExists)
	}
	return nil
}

func (s *implStore) GetSession(ctx context.Context, id string) (model.Session, error) {
	const query = `
		SELECT id, number, profile_id, started_at, duration_ns, ended_at
		FROM sessions WHERE id = ?`

	var (
		sess     model.Session
		started  int64
		duration int64
		ended    sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.Number, &sess.ProfileID, &started, &duration, &ended,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, store.Wrap("get session", store.ErrSessionNotFound)
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("GetSession"), err)
		return model.Session{}, store.Wrap("get session", err)
	}

	sess.StartedAt = time.Unix(0, started)
	sess.Duration = time.Duration(duration)
	if ended.Valid {
		t := time.Unix(0, ended.Int64)
		sess.EndedAt = &t
	}
	return sess, nil
}

func (s *implStore) UpdateSession(ctx context.Context, sess model.Session) error {
	const query = `
		UPDATE sessions
		SET number = ?, profile_id = ?, started_at = ?, duration_ns = ?, ended_at = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query,
		sess.Number, sess.ProfileID, sess.StartedAt.UnixNano(), int64(sess.Duration), endedAt(sess), sess.ID)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("UpdateSession"), err)
		return store.Wrap("update session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.Wrap("update session", store.ErrSessionNotFound)
	}
	return nil
}

func endedAt(sess model.Session) sql.NullInt64 {
	if sess.EndedAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: sess.EndedAt.UnixNano(), Valid: true}
}
