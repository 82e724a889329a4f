package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// newOpenAIImpl creates a new implementation
func newOpenAIImpl(cfg Config) *openAIImpl {
	return &openAIImpl{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		model:          cfg.Model,
		httpClient:     cfg.HTTPClient,
		jsonObjectOnly: cfg.JSONObjectOnly,
	}
}

// GenerateContent sends a chat completion request
func (c *openAIImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(c.transformRequest(req))
	if err != nil {
		return nil, fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("openai: failed to decode response: %w", err)
	}

	return transformResponse(&result), nil
}

// Model returns the model being used
func (c *openAIImpl) Model() string {
	return c.model
}

func (c *openAIImpl) transformRequest(req *Request) chatRequest {
	out := chatRequest{
		Model:       c.model,
		Messages:    make([]chatMessage, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if req.SystemInstruction != "" {
		out.Messages = append(out.Messages, chatMessage{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	if req.ResponseFormat != nil {
		if c.jsonObjectOnly {
			out.ResponseFormat = &chatResponseFormat{Type: formatJSONObject}
		} else {
			out.ResponseFormat = &chatResponseFormat{
				Type: formatJSONSchema,
				JSONSchema: &chatJSONSchema{
					Name:   req.ResponseFormat.Name,
					Strict: true,
					Schema: req.ResponseFormat.Schema,
				},
			}
		}
	}

	return out
}

func transformResponse(resp *chatResponse) *Response {
	out := &Response{
		Model: resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Content = choice.Message.Content
	out.Refusal = choice.Message.Refusal
	out.FinishReason = choice.FinishReason
	return out
}
