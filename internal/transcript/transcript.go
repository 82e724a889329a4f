// Package transcript renders stored sessions for export.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"value-added-framework/internal/model"
)

// Format is an export encoding.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Speaker labels used in chat transcripts.
const (
	PatientLabel   = "Patient"
	TherapistLabel = "Therapist"
)

var ErrUnknownFormat = errors.New("unknown transcript format")

// ParseFormat accepts md|markdown|json|yaml|yml. Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Document is the exported view of one session.
type Document struct {
	SessionID       string     `json:"session_id" yaml:"session_id"`
	SessionLabel    string     `json:"session_label" yaml:"session_label"`
	PatientName     string     `json:"patient_name" yaml:"patient_name"`
	StartedAt       time.Time  `json:"started_at" yaml:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes" yaml:"duration_minutes"`
	TotalTokens     int        `json:"total_tokens" yaml:"total_tokens"`
	Turns           []Entry    `json:"turns" yaml:"turns"`
}

// Entry is one exchange of the transcript.
type Entry struct {
	Sequence      int       `json:"sequence" yaml:"sequence"`
	Patient       string    `json:"patient" yaml:"patient"`
	Therapist     string    `json:"therapist" yaml:"therapist"`
	Notes         string    `json:"clinical_notes" yaml:"clinical_notes"`
	TimeRemaining string    `json:"time_remaining" yaml:"time_remaining"`
	Tokens        int       `json:"tokens" yaml:"tokens"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// NewDocument builds the export view of a session and its turns.
func NewDocument(s model.Session, patientName string, turns []model.Turn) Document {
	doc := Document{
		SessionID:       s.ID,
		SessionLabel:    s.Label(),
		PatientName:     patientName,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationMinutes: int(s.Duration / time.Minute),
		Turns:           make([]Entry, len(turns)),
	}
	for i, t := range turns {
		doc.Turns[i] = Entry{
			Sequence:      t.Sequence,
			Patient:       t.RawText,
			Therapist:     t.Response,
			Notes:         t.Notes,
			TimeRemaining: t.Payload.TimeRemaining,
			Tokens:        t.Usage.TotalTokens,
			CreatedAt:     t.CreatedAt,
		}
		doc.TotalTokens += t.Usage.TotalTokens
	}
	return doc
}

// Render encodes doc in format f.
func Render(f Format, doc Document) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return renderMarkdown(doc), nil
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Chat joins the exchanges as "*Patient*: ... |\n| *Therapist*: ...".
func Chat(entries []Entry, patient, therapist string) string {
	lines := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		lines = append(lines,
			fmt.Sprintf("*%s*: %s", patient, e.Patient),
			fmt.Sprintf("*%s*: %s", therapist, e.Therapist),
		)
	}
	return strings.Join(lines, " |\n| ")
}

func renderMarkdown(doc Document) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s: %s\n\n", doc.SessionLabel, doc.PatientName)
	fmt.Fprintf(&sb, "- Session ID: `%s`\n", doc.SessionID)
	fmt.Fprintf(&sb, "- Started: %s\n", doc.StartedAt.Format(time.RFC3339))
	if doc.EndedAt != nil {
		fmt.Fprintf(&sb, "- Ended: %s\n", doc.EndedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "- Duration: %d minutes\n", doc.DurationMinutes)
	fmt.Fprintf(&sb, "- Tokens: %d\n\n", doc.TotalTokens)

	if len(doc.Turns) == 0 {
		sb.WriteString("_No messages._\n")
		return []byte(sb.String())
	}

	sb.WriteString(Chat(doc.Turns, PatientLabel, TherapistLabel))
	sb.WriteString("\n\n## Clinical Notes\n\n")
	for _, e := range doc.Turns {
		fmt.Fprintf(&sb, "%d. (%s left) %s\n", e.Sequence, e.TimeRemaining, e.Notes)
	}
	return []byte(sb.String())
}
