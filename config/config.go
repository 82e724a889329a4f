package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Context injection engine
	Framework FrameworkConfig
	Store     StoreConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	RequestsPerMin int
}

// FrameworkConfig holds the orchestration knobs handed to the conversation use case.
type FrameworkConfig struct {
	MaxRetries             int
	TimeoutSeconds         int
	SessionDurationDefault string
	BackoffBase            string
	BackoffMax             string
	ResponseField          string
	NotesField             string
	Temperature            float64
	MaxTokens              int
}

// StoreConfig selects the SessionStore backend.
type StoreConfig struct {
	Driver string // "memory" or "sqlite"
	DSN    string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name            string `yaml:"name"`
	Enabled         bool   `yaml:"enabled"`
	Priority        int    `yaml:"priority"`
	APIKey          string `yaml:"api_key"`
	CredentialsPath string `yaml:"credentials_path,omitempty"` // gemini only: service account JSON
	BaseURL         string `yaml:"base_url,omitempty"`
	Model           string `yaml:"model"`
	Timeout         string `yaml:"timeout"`
}

// Load loads configuration using Viper and validates the LLM section.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads configuration without validating it. Callers that
// replace the provider list (the CLI --mock flag) validate afterwards with LLMConfig.Validate.
func Read() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.RequestsPerMin = viper.GetInt("rate_limit.requests_per_min")

	// Framework
	cfg.Framework.MaxRetries = viper.GetInt("framework.max_retries")
	cfg.Framework.TimeoutSeconds = viper.GetInt("framework.timeout_seconds")
	cfg.Framework.SessionDurationDefault = viper.GetString("framework.session_duration_default")
	cfg.Framework.BackoffBase = viper.GetString("framework.backoff_base")
	cfg.Framework.BackoffMax = viper.GetString("framework.backoff_max")
	cfg.Framework.ResponseField = viper.GetString("framework.response_field")
	cfg.Framework.NotesField = viper.GetString("framework.notes_field")
	cfg.Framework.Temperature = viper.GetFloat64("framework.temperature")
	cfg.Framework.MaxTokens = viper.GetInt("framework.max_tokens")

	// Store
	cfg.Store.Driver = viper.GetString("store.driver")
	cfg.Store.DSN = viper.GetString("store.dsn")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:            getStringFromMap(providerMap, "name"),
						Enabled:         getBoolFromMap(providerMap, "enabled"),
						Priority:        getIntFromMap(providerMap, "priority"),
						APIKey:          expandEnvVar(getStringFromMap(providerMap, "api_key")),
						CredentialsPath: expandEnvVar(getStringFromMap(providerMap, "credentials_path")),
						BaseURL:         getStringFromMap(providerMap, "base_url"),
						Model:           getStringFromMap(providerMap, "model"),
						Timeout:         getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	// The original tool only needed OPENAI_API_KEY; keep that path working without a config file.
	if len(cfg.LLM.Providers) == 0 {
		if key := viper.GetString("openai_api_key"); key != "" {
			cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
				Name:     "openai",
				Enabled:  true,
				Priority: 1,
				APIKey:   key,
				Model:    viper.GetString("openai_model"),
			})
		}
	}

	return cfg, nil
}

// Validate checks the provider list.
func (c *LLMConfig) Validate() error {
	return validateLLMConfig(c)
}

// MockLLMConfig is a single offline provider; nothing leaves the machine.
func MockLLMConfig() LLMConfig {
	return LLMConfig{
		Providers: []ProviderConfig{{Name: "mock", Enabled: true, Priority: 1}},
	}
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("rate_limit.requests_per_min", 60)

	// Framework defaults
	viper.SetDefault("framework.max_retries", 2)
	viper.SetDefault("framework.timeout_seconds", 30)
	viper.SetDefault("framework.session_duration_default", "50m")
	viper.SetDefault("framework.backoff_base", "500ms")
	viper.SetDefault("framework.backoff_max", "8s")
	viper.SetDefault("framework.response_field", "response")
	viper.SetDefault("framework.notes_field", "psychiatrist_thoughts")
	viper.SetDefault("framework.temperature", 0.7)
	viper.SetDefault("framework.max_tokens", 1024)
	viper.SetDefault("openai_model", "gpt-4o-mini")

	// Store defaults
	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("store.dsn", "psychology_sessions.db")

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.max_total_timeout", "90s")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - add llm.providers to config.yaml or set OPENAI_API_KEY")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" && provider.Name != "mock" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
