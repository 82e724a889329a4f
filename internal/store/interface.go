// Package store persists sessions, turns and patient profiles.
package store

import (
	"context"

	"value-added-framework/internal/model"
)

// Store is the composed persistence interface.
type Store interface {
	SessionStore
	TurnStore
	ProfileStore
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// SessionStore keeps session records.
type SessionStore interface {
	SaveSession(ctx context.Context, s model.Session) error
	GetSession(ctx context.Context, id string) (model.Session, error)
	UpdateSession(ctx context.Context, s model.Session) error
}

// TurnStore is the append-only turn log of each session.
type TurnStore interface {
	// Append writes t. Its sequence must be greater than every stored sequence of the session.
	Append(ctx context.Context, t model.Turn) error
	// History returns the session's turns in ascending sequence order.
	History(ctx context.Context, sessionID string) ([]model.Turn, error)
	// LastSequence returns the highest stored sequence, or 0.
	LastSequence(ctx context.Context, sessionID string) (int, error)
}

// ProfileStore keeps patient profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (model.PatientProfile, error)
	SaveProfile(ctx context.Context, p model.PatientProfile) error
}
