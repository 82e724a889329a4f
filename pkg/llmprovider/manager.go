package llmprovider

import (
	"context"
	"fmt"
	"time"

	"value-added-framework/pkg/log"
)

// Manager orchestrates provider selection and fallback.
// Each provider gets exactly one attempt per call; repeating a failed call is up to the caller.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	MaxTotalTimeout time.Duration // global timeout for the entire fallback chain
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	if config == nil {
		config = &Config{}
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Providers returns the configured providers in priority order.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// GenerateContent iterates through providers in priority order with fallback logic.
// A non-retryable error stops the chain: a refusal from one model is not a reason to ask another.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	tried := 0

	for _, provider := range m.providers {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w after trying %d provider(s): %w", ErrAllProvidersFailed, tried, ctx.Err())
		}

		tried++
		start := time.Now()
		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp, time.Since(start))
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = err

		if !m.config.FallbackEnabled || !IsRetryable(err) {
			break
		}
	}

	if tried == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// logSuccess logs successful LLM generation with metrics
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response, took time.Duration) {
	var in, out int
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Info(ctx, "LLM generation successful",
		"provider", provider.Name(),
		"model", provider.Model(),
		"input_tokens", in,
		"output_tokens", out,
		"latency_ms", took.Milliseconds(),
	)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warn(ctx, "LLM generation failed",
		"provider", provider.Name(),
		"model", provider.Model(),
		"retryable", IsRetryable(err),
		"error", err.Error(),
	)
}
