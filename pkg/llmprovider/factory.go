package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"value-added-framework/config"
	"value-added-framework/pkg/gemini"
	"value-added-framework/pkg/log"
	"value-added-framework/pkg/openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// InitializeProviders creates Provider instances from config.LLMConfig
// Returns providers sorted by priority (ascending) with disabled providers filtered out
// Skips providers that fail to initialize instead of failing the entire service
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, logger log.Logger) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	if len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	// Filter enabled providers
	var enabledProviders []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabledProviders = append(enabledProviders, p)
		}
	}

	if len(enabledProviders) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabledProviders, func(i, j int) bool {
		return enabledProviders[i].Priority < enabledProviders[j].Priority
	})

	var providers []Provider
	var initErrors []string

	for _, p := range enabledProviders {
		provider, err := createProvider(ctx, p)
		if err != nil {
			errMsg := fmt.Sprintf("failed to initialize provider %s (priority %d): %v", p.Name, p.Priority, err)
			initErrors = append(initErrors, errMsg)
			logger.Warn(ctx, errMsg)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}

	if len(initErrors) > 0 {
		logger.Warnf(ctx, "%d provider(s) failed to initialize but continuing with %d working provider(s)",
			len(initErrors), len(providers))
	}

	return providers, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	if cfg.Name == "mock" {
		return NewMockProvider(), nil
	}

	if cfg.APIKey == "" && !(cfg.Name == "gemini" && cfg.CredentialsPath != "") {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
	}

	httpClient, err := httpClientFor(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Name {
	case "openai":
		client, err := openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return NewOpenAIAdapter(cfg.Name, client), nil

	case "deepseek":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = deepseekBaseURL
		}
		client, err := openai.New(openai.Config{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        baseURL,
			HTTPClient:     httpClient,
			JSONObjectOnly: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek client: %w", err)
		}
		return NewOpenAIAdapter(cfg.Name, client), nil

	case "gemini":
		gcfg := gemini.Config{
			APIKey:          cfg.APIKey,
			CredentialsPath: cfg.CredentialsPath,
			Model:           cfg.Model,
			APIURL:          cfg.BaseURL,
		}
		// Service-account clients carry their own transport; only API-key clients take ours.
		if cfg.CredentialsPath == "" {
			gcfg.HTTPClient = httpClient
		}
		client, err := gemini.New(ctx, gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiAdapter(client), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

// httpClientFor returns a client honoring the provider timeout, or nil for the client default.
func httpClientFor(cfg config.ProviderConfig) (*http.Client, error) {
	if cfg.Timeout == "" {
		return nil, nil
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("provider %s: invalid timeout %q: %w", cfg.Name, cfg.Timeout, err)
	}
	return &http.Client{Timeout: timeout}, nil
}
