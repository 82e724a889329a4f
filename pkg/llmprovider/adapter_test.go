package llmprovider

import (
	"context"
	"errors"
	"testing"

	"value-added-framework/pkg/gemini"
	"value-added-framework/pkg/openai"
)

type fakeOpenAI struct {
	resp *openai.Response
	err  error
	last *openai.Request
}

func (f *fakeOpenAI) GenerateContent(ctx context.Context, req *openai.Request) (*openai.Response, error) {
	f.last = req
	return f.resp, f.err
}

func (f *fakeOpenAI) Model() string { return "gpt-test" }

type fakeGemini struct {
	resp *gemini.Response
	err  error
	last *gemini.Request
}

func (f *fakeGemini) GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error) {
	f.last = req
	return f.resp, f.err
}

func (f *fakeGemini) Model() string { return "gemini-test" }

func schemaRequest() *Request {
	return &Request{
		SystemInstruction: "sys",
		Messages: []Message{
			{Role: RoleUser, Text: "The User is just entering the chat."},
			{Role: RoleAssistant, Text: "Welcome."},
			{Role: RoleUser, Text: "payload"},
		},
		ResponseSchema: &Schema{Name: "structured_reply", Definition: map[string]any{"type": "object"}},
	}
}

func TestOpenAIAdapter(t *testing.T) {
	t.Run("success maps usage and schema", func(t *testing.T) {
		client := &fakeOpenAI{resp: &openai.Response{
			Content: `{"a":"b"}`,
			Usage:   &openai.Usage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5},
		}}
		adapter := NewOpenAIAdapter("deepseek", client)

		resp, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ProviderName != "deepseek" || resp.ModelName != "gpt-test" {
			t.Errorf("unexpected provider/model: %s/%s", resp.ProviderName, resp.ModelName)
		}
		if resp.Usage.TotalTokens != 5 {
			t.Errorf("expected 5 tokens, got %d", resp.Usage.TotalTokens)
		}
		if client.last.ResponseFormat == nil || client.last.ResponseFormat.Name != "structured_reply" {
			t.Error("expected response format to carry the schema")
		}
		if len(client.last.Messages) != 3 || client.last.Messages[1].Role != RoleAssistant {
			t.Errorf("unexpected messages: %+v", client.last.Messages)
		}
	})

	t.Run("refusal", func(t *testing.T) {
		adapter := NewOpenAIAdapter("openai", &fakeOpenAI{resp: &openai.Response{Refusal: "I can't help with that"}})
		_, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if !errors.Is(err, ErrRefused) {
			t.Fatalf("expected ErrRefused, got %v", err)
		}
	})

	t.Run("api error", func(t *testing.T) {
		adapter := NewOpenAIAdapter("openai", &fakeOpenAI{err: &openai.APIError{StatusCode: 401, Message: "bad key"}})
		_, err := adapter.GenerateContent(context.Background(), schemaRequest())

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 || apiErr.Provider != "openai" {
			t.Fatalf("expected 401 APIError, got %v", err)
		}
		if IsRetryable(err) {
			t.Error("401 must not be retryable")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		adapter := NewOpenAIAdapter("openai", &fakeOpenAI{resp: &openai.Response{}})
		_, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("expected ErrEmptyResponse, got %v", err)
		}
	})
}

func TestGeminiAdapter(t *testing.T) {
	t.Run("assistant role becomes model", func(t *testing.T) {
		client := &fakeGemini{resp: &gemini.Response{Text: `{"a":"b"}`, Usage: &gemini.Usage{TotalTokens: 7}}}
		adapter := NewGeminiAdapter(client)

		resp, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.last.Messages[1].Role != "model" {
			t.Errorf("expected model role, got %s", client.last.Messages[1].Role)
		}
		if client.last.ResponseSchema == nil {
			t.Error("expected response schema to be forwarded")
		}
		if resp.Usage.TotalTokens != 7 || resp.ProviderName != "gemini" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("blocked prompt is a refusal", func(t *testing.T) {
		adapter := NewGeminiAdapter(&fakeGemini{resp: &gemini.Response{Blocked: "SAFETY", Usage: &gemini.Usage{}}})
		_, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if !errors.Is(err, ErrRefused) {
			t.Fatalf("expected ErrRefused, got %v", err)
		}
	})

	t.Run("server error stays retryable", func(t *testing.T) {
		adapter := NewGeminiAdapter(&fakeGemini{err: &gemini.APIError{StatusCode: 503, Message: "overloaded"}})
		_, err := adapter.GenerateContent(context.Background(), schemaRequest())
		if !IsRetryable(err) {
			t.Fatalf("expected retryable error, got %v", err)
		}
	})
}
