package gateway

import (
	"context"
	"errors"
	"fmt"

	"value-added-framework/internal/injector"
	"value-added-framework/pkg/llmprovider"
	"value-added-framework/pkg/log"
)

// Generator is satisfied by *llmprovider.Manager and by any single llmprovider.Provider.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

type llmGateway struct {
	l   log.Logger
	gen Generator
	cfg Config
}

// New returns a Gateway backed by gen.
func New(l log.Logger, gen Generator, cfg Config) Gateway {
	return &llmGateway{l: l, gen: gen, cfg: cfg}
}

func (g *llmGateway) Send(ctx context.Context, req Request) (RawReply, error) {
	callCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.gen.GenerateContent(callCtx, g.buildRequest(req))
	if err != nil {
		// The caller gave up: not ours to classify.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RawReply{}, ctxErr
		}
		if callCtx.Err() != nil {
			g.l.Warnf(ctx, "gateway.Send: deadline of %s exceeded", g.cfg.Timeout)
			return RawReply{}, &TransientError{Err: fmt.Errorf("%w after %s: %w", ErrTimeout, g.cfg.Timeout, err)}
		}
		if llmprovider.IsRetryable(err) {
			g.l.Warnf(ctx, "gateway.Send: transient: %v", err)
			return RawReply{}, &TransientError{Err: err}
		}
		g.l.Errorf(ctx, "gateway.Send: fatal: %v", err)
		return RawReply{}, &FatalError{Err: err}
	}
	if resp == nil {
		return RawReply{}, &TransientError{Err: errors.New("provider returned no response")}
	}

	out := RawReply{
		Text:     resp.Text,
		Provider: resp.ProviderName,
		Model:    resp.ModelName,
	}
	if resp.Usage != nil {
		out.Usage.InputTokens = resp.Usage.InputTokens
		out.Usage.OutputTokens = resp.Usage.OutputTokens
		out.Usage.TotalTokens = resp.Usage.TotalTokens
	}
	return out, nil
}

// buildRequest lays out the conversation: opening line, replayed turns, then the new payload.
func (g *llmGateway) buildRequest(req Request) *llmprovider.Request {
	msgs := make([]llmprovider.Message, 0, 2+2*len(req.Transcript))
	msgs = append(msgs, llmprovider.Message{Role: llmprovider.RoleUser, Text: injector.OpeningMessage})
	for _, ex := range req.Transcript {
		msgs = append(msgs,
			llmprovider.Message{Role: llmprovider.RoleUser, Text: ex.User},
			llmprovider.Message{Role: llmprovider.RoleAssistant, Text: ex.Assistant},
		)
	}
	msgs = append(msgs, llmprovider.Message{Role: llmprovider.RoleUser, Text: req.Payload.Render()})

	out := &llmprovider.Request{
		SystemInstruction: req.SystemPrompt,
		Messages:          msgs,
		Temperature:       g.cfg.Temperature,
		MaxTokens:         g.cfg.MaxTokens,
	}
	if req.Schema.Definition != nil {
		out.ResponseSchema = &llmprovider.Schema{Name: req.Schema.Name, Definition: req.Schema.Definition}
	}
	return out
}
