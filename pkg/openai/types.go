package openai

import (
	"fmt"
	"net/http"
)

// Config holds client configuration.
// JSONObjectOnly is for OpenAI-compatible endpoints (e.g. DeepSeek) without json_schema support.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	HTTPClient     *http.Client
	JSONObjectOnly bool
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai: APIKey is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// openAIImpl is the internal implementation of IOpenAI
type openAIImpl struct {
	apiKey         string
	baseURL        string
	model          string
	httpClient     *http.Client
	jsonObjectOnly bool
}

// Request represents a chat completion request
type Request struct {
	SystemInstruction string
	Messages          []Message
	ResponseFormat    *ResponseFormat
	Temperature       float64
	MaxTokens         int
}

// Message is a single chat message
type Message struct {
	Role    string
	Content string
}

// ResponseFormat constrains the output to a JSON schema
type ResponseFormat struct {
	Name   string
	Schema map[string]interface{}
}

// Response represents a chat completion response
type Response struct {
	Content      string
	Refusal      string
	FinishReason string
	Model        string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// APIError is returned for non-200 responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: API error %d: %s", e.StatusCode, e.Message)
}

// Wire types
type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

type chatResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *chatJSONSchema `json:"json_schema,omitempty"`
}

type chatJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
