package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDuration = errors.New("session duration must be positive")
	ErrFutureStart     = errors.New("session start is in the future")
)

// Session is a bounded-duration interaction window.
type Session struct {
	ID        string
	Number    int // ordinal used in the "Session N" label
	ProfileID string
	StartedAt time.Time
	Duration  time.Duration
	EndedAt   *time.Time
}

// Label renders the ordinal session label, e.g. "Session 3".
func (s Session) Label() string {
	return fmt.Sprintf("Session %d", s.Number)
}

// Ended reports whether the session was explicitly terminated.
func (s Session) Ended() bool {
	return s.EndedAt != nil
}

// Validate checks the session invariants against now.
func (s Session) Validate(now time.Time) error {
	if s.Duration <= 0 {
		return ErrInvalidDuration
	}
	if s.StartedAt.After(now) {
		return ErrFutureStart
	}
	return nil
}
