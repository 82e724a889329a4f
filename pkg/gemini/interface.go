package gemini

import "context"

// IGemini defines the interface for Gemini API client.
// Implementations are safe for concurrent use.
type IGemini interface {
	// GenerateContent sends a generation request to Gemini API
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model being used
	Model() string
}

// New creates a new Gemini client with the given configuration.
// With CredentialsPath set the client authenticates with a service account instead of an API key.
func New(ctx context.Context, cfg Config) (IGemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CredentialsPath != "" && cfg.HTTPClient == nil {
		client, err := newServiceAccountClient(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, err
		}
		cfg.HTTPClient = client
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = newDefaultClient()
	}
	return newGeminiImpl(cfg), nil
}
