// Package app turns loaded configuration into the engine's collaborators.
// It is shared by the HTTP service and the CLI.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"value-added-framework/config"
	"value-added-framework/internal/contract"
	"value-added-framework/internal/conversation/usecase"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/store"
	"value-added-framework/internal/store/memory"
	"value-added-framework/internal/store/sqlite"
	"value-added-framework/pkg/llmprovider"
	"value-added-framework/pkg/log"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// NewLogger builds the zap-backed logger from cfg.
func NewLogger(cfg config.LoggerConfig) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Level,
		Mode:         cfg.Mode,
		Encoding:     cfg.Encoding,
		ColorEnabled: cfg.ColorEnabled,
	})
}

// OpenStore opens the configured session store.
func OpenStore(ctx context.Context, cfg config.StoreConfig, l log.Logger) (store.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", StoreMemory:
		return memory.New(), nil
	case StoreSQLite:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store.dsn is required for the sqlite driver")
		}
		return sqlite.New(ctx, cfg.DSN, l)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewGenerator builds the provider chain from cfg.LLM.
func NewGenerator(ctx context.Context, cfg *config.Config, l log.Logger) (*llmprovider.Manager, error) {
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM providers: %w", err)
	}

	mcfg := &llmprovider.Config{FallbackEnabled: cfg.LLM.FallbackEnabled}
	if cfg.LLM.MaxTotalTimeout != "" {
		d, err := time.ParseDuration(cfg.LLM.MaxTotalTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid llm.max_total_timeout: %w", err)
		}
		mcfg.MaxTotalTimeout = d
	}

	return llmprovider.NewManager(providers, mcfg, l), nil
}

// GatewayConfig converts the framework section into a gateway.Config.
func GatewayConfig(cfg config.FrameworkConfig) gateway.Config {
	return gateway.Config{
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// ConversationConfig converts the framework section into a usecase.Config.
func ConversationConfig(cfg config.FrameworkConfig) (usecase.Config, error) {
	out := usecase.Config{
		MaxRetries: cfg.MaxRetries,
		Backoff:    usecase.DefaultBackoff(),
	}
	if cfg.MaxRetries < 0 {
		return out, fmt.Errorf("framework.max_retries must not be negative")
	}

	var err error
	if out.DefaultDuration, err = parseDuration("framework.session_duration_default", cfg.SessionDurationDefault, usecase.DefaultSessionDuration); err != nil {
		return out, err
	}
	if out.Backoff.Base, err = parseDuration("framework.backoff_base", cfg.BackoffBase, out.Backoff.Base); err != nil {
		return out, err
	}
	if out.Backoff.Max, err = parseDuration("framework.backoff_max", cfg.BackoffMax, out.Backoff.Max); err != nil {
		return out, err
	}

	out.Contract, err = contract.New(contract.Config{
		ResponseField: cfg.ResponseField,
		NotesField:    cfg.NotesField,
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func parseDuration(key, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
