package llmprovider

import (
	"context"
	"errors"

	"value-added-framework/pkg/gemini"
	"value-added-framework/pkg/openai"
)

// OpenAIAdapter adapts pkg/openai to the Provider interface.
// It serves every OpenAI-compatible endpoint, so the provider name is configurable.
type OpenAIAdapter struct {
	name   string
	client openai.IOpenAI
}

// NewOpenAIAdapter creates a new OpenAI-compatible adapter
func NewOpenAIAdapter(name string, client openai.IOpenAI) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	oaReq := &openai.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          make([]openai.Message, len(req.Messages)),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}
	for i, msg := range req.Messages {
		oaReq.Messages[i] = openai.Message{Role: msg.Role, Content: msg.Text}
	}
	if req.ResponseSchema != nil {
		oaReq.ResponseFormat = &openai.ResponseFormat{
			Name:   req.ResponseSchema.Name,
			Schema: req.ResponseSchema.Definition,
		}
	}

	resp, err := a.client.GenerateContent(ctx, oaReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &APIError{Provider: a.name, StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, &ProviderError{Provider: a.name, Err: err}
	}

	if resp.Refusal != "" || resp.FinishReason == "content_filter" {
		return nil, &ProviderError{Provider: a.name, Err: ErrRefused}
	}
	if resp.Content == "" {
		return nil, &ProviderError{Provider: a.name, Err: ErrEmptyResponse}
	}

	out := &Response{
		Text:         resp.Content,
		FinishReason: resp.FinishReason,
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.Model != "" {
		out.ModelName = resp.Model
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.client.Model()
}

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	gReq := &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          make([]gemini.Message, len(req.Messages)),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}
	for i, msg := range req.Messages {
		role := msg.Role
		if role == RoleAssistant {
			role = "model"
		}
		gReq.Messages[i] = gemini.Message{Role: role, Text: msg.Text}
	}
	if req.ResponseSchema != nil {
		gReq.ResponseSchema = req.ResponseSchema.Definition
	}

	resp, err := a.client.GenerateContent(ctx, gReq)
	if err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			return nil, &APIError{Provider: a.Name(), StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	if resp.Blocked != "" || resp.FinishReason == "SAFETY" {
		return nil, &ProviderError{Provider: a.Name(), Err: ErrRefused}
	}
	if resp.Text == "" {
		return nil, &ProviderError{Provider: a.Name(), Err: ErrEmptyResponse}
	}

	return &Response{
		Text:         resp.Text,
		FinishReason: resp.FinishReason,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}
