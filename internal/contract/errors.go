package contract

import (
	"errors"
	"fmt"
)

var (
	ErrNotObject    = errors.New("reply is not a JSON object")
	ErrMissingField = errors.New("required field is missing")
	ErrWrongType    = errors.New("field is not a string")
	ErrTrailingData = errors.New("unexpected data after reply object")
	ErrUnknownField = errors.New("field is not part of the reply schema")
	ErrEmptyReply   = errors.New("reply is empty")
	ErrFieldNames   = errors.New("response and notes field names must be distinct and non-empty")
)

// MalformedReplyError reports a model reply that violates the output schema.
type MalformedReplyError struct {
	Field string
	Raw   string
	Err   error
}

func (e *MalformedReplyError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed reply: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed reply: %v", e.Err)
}

func (e *MalformedReplyError) Unwrap() error {
	return e.Err
}
