package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const mockModel = "mock-therapist"

// MockProvider answers offline with a canned reply that satisfies the requested schema.
// It lets the service and CLI run end to end without an API key.
type MockProvider struct{}

// NewMockProvider creates a MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GenerateContent implements Provider interface
func (m *MockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	latest := req.Messages[len(req.Messages)-1].Text
	responseField, notesField := "response", "notes"
	if req.ResponseSchema != nil {
		if names := requiredFields(req.ResponseSchema.Definition); len(names) == 2 {
			responseField, notesField = names[0], names[1]
		}
	}

	body, err := json.Marshal(map[string]string{
		responseField: "I hear you. Tell me a little more about how that makes you feel.",
		notesField:    fmt.Sprintf("Offline reply. Patient input was %d characters long.", len(strings.TrimSpace(latest))),
	})
	if err != nil {
		return nil, err
	}

	in := len(req.SystemInstruction) / 4
	for _, msg := range req.Messages {
		in += len(msg.Text) / 4
	}
	out := len(body) / 4

	return &Response{
		Text:         string(body),
		FinishReason: "stop",
		ProviderName: m.Name(),
		ModelName:    mockModel,
		Usage:        &Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	}, nil
}

// Name returns provider name
func (m *MockProvider) Name() string {
	return "mock"
}

// Model returns model name
func (m *MockProvider) Model() string {
	return mockModel
}

func requiredFields(def map[string]any) []string {
	switch v := def["required"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
