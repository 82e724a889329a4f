package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-added-framework/internal/contract"
	"value-added-framework/internal/injector"
	"value-added-framework/internal/model"
	"value-added-framework/pkg/llmprovider"
	"value-added-framework/pkg/log"
)

type stubGenerator struct {
	resp  *llmprovider.Response
	err   error
	delay time.Duration
	last  *llmprovider.Request
}

func (s *stubGenerator) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.last = req
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

func testRequest() Request {
	return Request{
		SystemPrompt: "sys",
		Transcript:   []Exchange{{User: "earlier", Assistant: "earlier reply"}},
		Payload: model.EnhancedPayload{
			LatestMessage: "hello",
			TimeRemaining: "10 minutes and 0 seconds",
			SessionLabel:  "Session 1",
			History:       "none",
		},
		Schema: contract.Default().Schema(),
	}
}

func TestSend_Success(t *testing.T) {
	gen := &stubGenerator{resp: &llmprovider.Response{
		Text:         `{"response":"hi","psychiatrist_thoughts":"n"}`,
		ProviderName: "mock",
		ModelName:    "mock-model",
		Usage:        &llmprovider.Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3},
	}}
	gw := New(log.NewNop(), gen, Config{Timeout: time.Second, Temperature: 0.5, MaxTokens: 100})

	reply, err := gw.Send(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "mock", reply.Provider)
	assert.Equal(t, 3, reply.Usage.TotalTokens)

	msgs := gen.last.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, injector.OpeningMessage, msgs[0].Text)
	assert.Equal(t, "earlier", msgs[1].Text)
	assert.Equal(t, llmprovider.RoleAssistant, msgs[2].Role)
	assert.Contains(t, msgs[3].Text, "Latest_Patient_Message: {hello};")
	assert.Equal(t, "sys", gen.last.SystemInstruction)
	require.NotNil(t, gen.last.ResponseSchema)
	assert.Equal(t, contract.SchemaName, gen.last.ResponseSchema.Name)
	assert.Equal(t, 100, gen.last.MaxTokens)
}

func TestSend_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "rate limited", err: &llmprovider.APIError{StatusCode: 429}, transient: true},
		{name: "server error", err: &llmprovider.APIError{StatusCode: 500}, transient: true},
		{name: "unauthorized", err: &llmprovider.APIError{StatusCode: 401}, transient: false},
		{name: "refusal", err: &llmprovider.ProviderError{Provider: "openai", Err: llmprovider.ErrRefused}, transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := New(log.NewNop(), &stubGenerator{err: tt.err}, Config{})
			_, err := gw.Send(context.Background(), testRequest())
			require.Error(t, err)

			if tt.transient {
				var te *TransientError
				assert.True(t, errors.As(err, &te), "expected TransientError, got %v", err)
			} else {
				var fe *FatalError
				assert.True(t, errors.As(err, &fe), "expected FatalError, got %v", err)
			}
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestSend_OwnTimeoutIsTransient(t *testing.T) {
	gw := New(log.NewNop(), &stubGenerator{delay: time.Second}, Config{Timeout: 10 * time.Millisecond})

	_, err := gw.Send(context.Background(), testRequest())

	var te *TransientError
	require.True(t, errors.As(err, &te), "expected TransientError, got %v", err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSend_CallerCancellation(t *testing.T) {
	gw := New(log.NewNop(), &stubGenerator{delay: time.Second}, Config{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := gw.Send(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransient(err))
}
