package gateway

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a call that hit the gateway deadline.
var ErrTimeout = errors.New("model call timed out")

// TransientError is a failure that may succeed on retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient gateway error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// FatalError is a failure that will not succeed on retry.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal gateway error: %v", e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is, or wraps, a *TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
