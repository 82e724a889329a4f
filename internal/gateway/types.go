package gateway

import (
	"time"

	"value-added-framework/internal/contract"
	"value-added-framework/internal/model"
)

// Config tunes a single model call.
type Config struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Exchange is a prior turn replayed to the model.
type Exchange struct {
	User      string
	Assistant string
}

// Request is everything the model sees for one turn.
type Request struct {
	SystemPrompt string
	Transcript   []Exchange
	Payload      model.EnhancedPayload
	Schema       contract.Schema
}

// RawReply is the unvalidated model output plus call metadata.
type RawReply struct {
	Text     string
	Provider string
	Model    string
	Usage    model.Usage
}
