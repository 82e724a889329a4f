package transcript

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"value-added-framework/internal/model"
)

func testDocument() Document {
	session := model.Session{
		ID:        "abc",
		Number:    3,
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Duration:  50 * time.Minute,
	}
	turns := []model.Turn{
		{Sequence: 1, RawText: "Hi", Response: "Hello", Notes: "calm", Usage: model.Usage{TotalTokens: 10},
			Payload: model.EnhancedPayload{TimeRemaining: "49 minutes and 0 seconds"}},
		{Sequence: 2, RawText: "I can't sleep", Response: "Tell me more", Notes: "insomnia", Usage: model.Usage{TotalTokens: 15}},
	}
	return NewDocument(session, "Alex Johnson", turns)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: "JSON", want: FormatJSON},
		{in: "yml", want: FormatYAML},
		{in: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewDocument(t *testing.T) {
	doc := testDocument()
	assert.Equal(t, "Session 3", doc.SessionLabel)
	assert.Equal(t, 25, doc.TotalTokens)
	assert.Equal(t, 50, doc.DurationMinutes)
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "insomnia", doc.Turns[1].Notes)
}

func TestChat(t *testing.T) {
	got := Chat(testDocument().Turns, PatientLabel, TherapistLabel)
	want := "*Patient*: Hi |\n| *Therapist*: Hello |\n| *Patient*: I can't sleep |\n| *Therapist*: Tell me more"
	assert.Equal(t, want, got)
}

func TestRender(t *testing.T) {
	doc := testDocument()

	t.Run("markdown", func(t *testing.T) {
		out, err := Render(FormatMarkdown, doc)
		require.NoError(t, err)
		s := string(out)
		assert.True(t, strings.HasPrefix(s, "# Session 3: Alex Johnson"))
		assert.Contains(t, s, "*Therapist*: Tell me more")
		assert.Contains(t, s, "1. (49 minutes and 0 seconds left) calm")
	})

	t.Run("json", func(t *testing.T) {
		out, err := Render(FormatJSON, doc)
		require.NoError(t, err)
		var back Document
		require.NoError(t, json.Unmarshal(out, &back))
		assert.Equal(t, doc.SessionID, back.SessionID)
		assert.Len(t, back.Turns, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := Render(FormatYAML, doc)
		require.NoError(t, err)
		assert.Contains(t, string(out), "patient_name: Alex Johnson")
		var back map[string]any
		require.NoError(t, yaml.Unmarshal(out, &back))
		assert.Equal(t, "abc", back["session_id"])
	})

	t.Run("empty session", func(t *testing.T) {
		out, err := Render(FormatMarkdown, NewDocument(model.Session{Number: 1}, "X", nil))
		require.NoError(t, err)
		assert.Contains(t, string(out), "_No messages._")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Render(Format("pdf"), doc)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}
