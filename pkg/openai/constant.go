package openai

import "time"

const (
	// DefaultBaseURL is the default OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second
)

// Response format types.
const (
	formatJSONSchema = "json_schema"
	formatJSONObject = "json_object"
)
