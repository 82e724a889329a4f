package model

import "time"

// Turn is one user-input/model-reply exchange. Immutable once written.
type Turn struct {
	SessionID string          `json:"session_id" yaml:"session_id"`
	Sequence  int             `json:"sequence" yaml:"sequence"`
	RawText   string          `json:"raw_text" yaml:"raw_text"`
	Payload   EnhancedPayload `json:"payload" yaml:"payload"`
	Response  string          `json:"response" yaml:"response"`
	Notes     string          `json:"notes" yaml:"notes"`
	Provider  string          `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string          `json:"model,omitempty" yaml:"model,omitempty"`
	Usage     Usage           `json:"usage" yaml:"usage"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// Usage tracks token consumption of one model call.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int `json:"total_tokens" yaml:"total_tokens"`
}
