// Package contract owns the two-field structured output the model must return.
package contract

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

const (
	DefaultResponseField = "response"
	DefaultNotesField    = "psychiatrist_thoughts"

	// SchemaName identifies the schema towards providers that require a name.
	SchemaName = "structured_reply"
)

var fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Config names the two output fields. Empty values fall back to the defaults.
type Config struct {
	ResponseField string
	NotesField    string
}

// Contract validates model replies against the configured field names.
type Contract struct {
	responseField string
	notesField    string
}

// Schema describes the required output shape.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Reply is a validated model reply. Both fields are always set by Parse.
type Reply struct {
	response string
	notes    string
}

// Response is the user-facing text.
func (r Reply) Response() string { return r.response }

// InternalNotes is the text the user does not see.
func (r Reply) InternalNotes() string { return r.notes }

// New creates a Contract from cfg.
func New(cfg Config) (*Contract, error) {
	if cfg.ResponseField == "" {
		cfg.ResponseField = DefaultResponseField
	}
	if cfg.NotesField == "" {
		cfg.NotesField = DefaultNotesField
	}
	if strings.TrimSpace(cfg.ResponseField) == "" || strings.TrimSpace(cfg.NotesField) == "" || cfg.ResponseField == cfg.NotesField {
		return nil, ErrFieldNames
	}
	return &Contract{responseField: cfg.ResponseField, notesField: cfg.NotesField}, nil
}

// Default returns the therapeutic contract ("response", "psychiatrist_thoughts").
func Default() *Contract {
	return &Contract{responseField: DefaultResponseField, notesField: DefaultNotesField}
}

// ResponseField returns the user-facing field name.
func (c *Contract) ResponseField() string { return c.responseField }

// NotesField returns the internal notes field name.
func (c *Contract) NotesField() string { return c.notesField }

// Schema returns a JSON schema with exactly two required string fields.
func (c *Contract) Schema() Schema {
	return Schema{
		Name: SchemaName,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				c.responseField: map[string]any{"type": "string"},
				c.notesField:    map[string]any{"type": "string"},
			},
			"required":             []string{c.responseField, c.notesField},
			"additionalProperties": false,
		},
	}
}

// Parse validates raw and returns the Reply, or a *MalformedReplyError.
// A surrounding markdown code fence is tolerated; nothing else is repaired.
func (c *Contract) Parse(raw string) (Reply, error) {
	body := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(body); len(m) > 1 {
		body = strings.TrimSpace(m[1])
	}
	if body == "" {
		return Reply{}, &MalformedReplyError{Raw: raw, Err: ErrEmptyReply}
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return Reply{}, &MalformedReplyError{Raw: raw, Err: ErrNotObject}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Reply{}, &MalformedReplyError{Raw: raw, Err: ErrTrailingData}
	}

	for name := range obj {
		if name != c.responseField && name != c.notesField {
			return Reply{}, &MalformedReplyError{Field: name, Raw: raw, Err: ErrUnknownField}
		}
	}

	response, err := c.stringField(obj, c.responseField, raw)
	if err != nil {
		return Reply{}, err
	}
	notes, err := c.stringField(obj, c.notesField, raw)
	if err != nil {
		return Reply{}, err
	}

	return Reply{response: response, notes: notes}, nil
}

func (c *Contract) stringField(obj map[string]json.RawMessage, name, raw string) (string, error) {
	value, ok := obj[name]
	if !ok {
		return "", &MalformedReplyError{Field: name, Raw: raw, Err: ErrMissingField}
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return "", &MalformedReplyError{Field: name, Raw: raw, Err: ErrWrongType}
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", &MalformedReplyError{Field: name, Raw: raw, Err: ErrWrongType}
	}
	return s, nil
}
