// Package injector assembles the context-augmented payload that replaces raw user text.
package injector

import (
	"errors"
	"fmt"
	"strings"

	"value-added-framework/internal/model"
	"value-added-framework/internal/timer"
)

// ErrMissingField is returned by Validate when a mandated field is empty.
var ErrMissingField = errors.New("enhanced payload is missing a field")

// Injector builds EnhancedPayload values. It has no side effects.
type Injector struct {
	timer *timer.Timer
}

// New creates an Injector that renders remaining time with t.
func New(t *timer.Timer) *Injector {
	return &Injector{timer: t}
}

// Build assembles the payload for raw. A nil profile yields EmptyHistoryPlaceholder.
func (in *Injector) Build(raw string, session model.Session, profile *model.PatientProfile) model.EnhancedPayload {
	history := EmptyHistoryPlaceholder
	if profile != nil {
		history = FormatHistory(*profile)
	}

	return model.EnhancedPayload{
		LatestMessage: raw,
		TimeRemaining: in.timer.RenderRemaining(session),
		SessionLabel:  session.Label(),
		History:       history,
	}
}

// Validate checks that every mandated field carries a value.
func Validate(p model.EnhancedPayload) error {
	for _, f := range p.Fields() {
		if f.Value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.Name)
		}
	}
	return nil
}

// SystemPrompt renders the system instruction for the given output field names.
func SystemPrompt(responseField, notesField string) string {
	return fmt.Sprintf(SystemPromptTemplate, responseField, notesField, responseField, notesField)
}

// FormatHistory condenses a profile into the history field.
func FormatHistory(p model.PatientProfile) string {
	var sb strings.Builder

	age := unknown
	if p.Age > 0 {
		age = fmt.Sprintf("%d", p.Age)
	}
	fmt.Fprintf(&sb, "Patient: %s (Age: %s)\n", orDefault(p.Name, unknown), age)
	fmt.Fprintf(&sb, "Diagnosis: %s\n", orDefault(p.Diagnosis, "None specified"))
	fmt.Fprintf(&sb, "Current Medications: %s\n", strings.Join(p.Medications, ", "))

	sb.WriteString("\nTherapy Goals:\n")
	for _, goal := range p.TherapyGoals {
		fmt.Fprintf(&sb, "- %s\n", goal)
	}

	fmt.Fprintf(&sb, "\nKnown Triggers:\n%s\n", strings.Join(p.Triggers, ", "))
	fmt.Fprintf(&sb, "\nPatient Strengths:\n%s\n", strings.Join(p.Strengths, ", "))

	if p.Notes != "" {
		fmt.Fprintf(&sb, "\nClinical Notes:\n%s\n", p.Notes)
	}

	sb.WriteString("\nPrevious Sessions Summary:\n")
	for _, s := range p.PreviousSessions {
		fmt.Fprintf(&sb, "\nSession %d (%s):\n", s.Number, orDefault(s.Date, "Unknown date"))
		fmt.Fprintf(&sb, "- Topics: %s\n", strings.Join(s.KeyTopics, ", "))
		fmt.Fprintf(&sb, "- Notes: %s\n", orDefault(s.Notes, "No notes available"))
	}

	return strings.TrimSpace(sb.String())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
