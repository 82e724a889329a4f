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

// Append checks the sequence and inserts inside one transaction.
func (s *implStore) Append(ctx context.Context, t model.Turn) error {
	if t.Sequence <= 0 {
		return store.Wrap("append", store.ErrSequenceConflict)
	}

	payload, err := json.Marshal(t.Payload)
	if err != nil {
		return store.Wrap("append", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.l.Errorf(ctx, "%s begin: %v", s.op("Append"), err)
		return store.Wrap("append", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, t.SessionID).Scan(&exists); err != nil {
		return store.Wrap("append", err)
	}
	if exists == 0 {
		return store.Wrap("append", store.ErrSessionNotFound)
	}

	var last int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) FROM turns WHERE session_id = ?`, t.SessionID).Scan(&last); err != nil {
		return store.Wrap("append", err)
	}
	if t.Sequence <= last {
		return store.Wrap("append", store.ErrSequenceConflict)
	}

	const query = `
		INSERT INTO turns (session_id, sequence, raw_text, payload, response, notes,
			provider, model, input_tokens, output_tokens, total_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		t.SessionID, t.Sequence, t.RawText, string(payload), t.Response, t.Notes,
		t.Provider, t.Model, t.Usage.InputTokens, t.Usage.OutputTokens, t.Usage.TotalTokens,
		t.CreatedAt.UnixNano(),
	); err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("Append"), err)
		return store.Wrap("append", err)
	}

	if err := tx.Commit(); err != nil {
		s.l.Errorf(ctx, "%s commit: %v", s.op("Append"), err)
		return store.Wrap("append", err)
	}
	return nil
}

func (s *implStore) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if err := s.requireSession(ctx, "history", sessionID); err != nil {
		return nil, err
	}

	const query = `
		SELECT session_id, sequence, raw_text, payload, response, notes,
			provider, model, input_tokens, output_tokens, total_tokens, created_at
		FROM turns WHERE session_id = ? ORDER BY sequence ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.op("History"), err)
		return nil, store.Wrap("history", err)
	}
	defer rows.Close()

	turns := make([]model.Turn, 0)
	for rows.Next() {
		var (
			t       model.Turn
			payload string
			created int64
		)
		if err := rows.Scan(&t.SessionID, &t.Sequence, &t.RawText, &payload, &t.Response, &t.Notes,
			&t.Provider, &t.Model, &t.Usage.InputTokens, &t.Usage.OutputTokens, &t.Usage.TotalTokens, &created); err != nil {
			return nil, store.Wrap("history", err)
		}
		if err := json.Unmarshal([]byte(payload), &t.Payload); err != nil {
			return nil, store.Wrap("history", err)
		}
		t.CreatedAt = time.Unix(0, created)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("history", err)
	}
	return turns, nil
}

func (s *implStore) LastSequence(ctx context.Context, sessionID string) (int, error) {
	if err := s.requireSession(ctx, "last sequence", sessionID); err != nil {
		return 0, err
	}

	var last int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) FROM turns WHERE session_id = ?`, sessionID).Scan(&last)
	if err != nil {
		return 0, store.Wrap("last sequence", err)
	}
	return last, nil
}

func (s *implStore) requireSession(ctx context.Context, op, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Wrap(op, store.ErrSessionNotFound)
	}
	return store.Wrap(op, err)
}
