package config

import (
	"strings"
	"testing"
)

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LLMConfig
		wantErr string
	}{
		{
			name: "valid",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "openai", Enabled: true, Priority: 1, Model: "gpt-4o-mini"},
				{Name: "gemini", Enabled: true, Priority: 2, Model: "gemini-2.5-flash"},
			}},
		},
		{
			name:    "no providers",
			cfg:     LLMConfig{},
			wantErr: "no LLM providers configured",
		},
		{
			name: "missing model",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "openai", Enabled: true, Priority: 1},
			}},
			wantErr: "model is required",
		},
		{
			name: "mock needs no model",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "mock", Enabled: true, Priority: 1},
			}},
		},
		{
			name: "duplicate priority",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "openai", Enabled: true, Priority: 1, Model: "a"},
				{Name: "gemini", Enabled: true, Priority: 1, Model: "b"},
			}},
			wantErr: "duplicate priority",
		},
		{
			name: "all disabled",
			cfg: LLMConfig{Providers: []ProviderConfig{
				{Name: "openai", Enabled: false, Priority: 1, Model: "a"},
			}},
			wantErr: "no enabled LLM providers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLLMConfig(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("VAF_TEST_KEY", "secret")

	if got := expandEnvVar("${VAF_TEST_KEY}"); got != "secret" {
		t.Errorf("expected secret, got %q", got)
	}
	if got := expandEnvVar("plain"); got != "plain" {
		t.Errorf("expected plain, got %q", got)
	}
	if got := expandEnvVar(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestMockLLMConfig(t *testing.T) {
	cfg := MockLLMConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock config should validate: %v", err)
	}
	if cfg.Providers[0].Name != "mock" {
		t.Errorf("expected mock provider, got %s", cfg.Providers[0].Name)
	}
}
