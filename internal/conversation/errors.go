package conversation

import (
	"errors"
	"fmt"
)

// Kind classifies a failed cycle.
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindTransientGateway Kind = "transient_gateway"
	KindFatalGateway     Kind = "fatal_gateway"
	KindMalformedReply   Kind = "malformed_reply"
	KindCancelled        Kind = "cancelled"
	KindSessionNotFound  Kind = "session_not_found"
	KindSessionEnded     Kind = "session_ended"
	KindProfileNotFound  Kind = "profile_not_found"
	KindStoreUnavailable Kind = "store_unavailable"
)

var (
	ErrBlankInput    = errors.New("input is blank")
	ErrSessionEnded  = errors.New("session has ended")
	ErrInvalidConfig = errors.New("invalid session parameters")
)

// Error is the Failed outcome of an operation.
type Error struct {
	Kind     Kind
	State    State // state the cycle failed in
	Attempts int   // gateway attempts made
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StoreWarning reports a turn that was answered but not persisted.
type StoreWarning struct {
	Sequence int
	Err      error
}

func (w *StoreWarning) Error() string {
	return fmt.Sprintf("turn %d was not persisted: %v", w.Sequence, w.Err)
}

func (w *StoreWarning) Unwrap() error { return w.Err }
