package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// newGeminiImpl creates a new Gemini implementation
func newGeminiImpl(cfg Config) *geminiImpl {
	return &geminiImpl{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     cfg.APIURL,
		httpClient: cfg.HTTPClient,
	}
}

func newDefaultClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// newServiceAccountClient builds an authorized HTTP client from a service account JSON file.
func newServiceAccountClient(ctx context.Context, credentialsPath string) (*http.Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("gemini: unsupported credentials format: %w", err)
	}

	client, _, err := htransport.NewClient(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create authorized client: %w", err)
	}
	client.Timeout = DefaultTimeout
	return client, nil
}

// GenerateContent sends a generation request to Gemini API
func (g *geminiImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiResp, err := g.callAPI(ctx, transformRequest(req))
	if err != nil {
		return nil, err
	}
	return transformResponse(geminiResp), nil
}

// Model returns the model being used
func (g *geminiImpl) Model() string {
	return g.model
}

// callAPI sends a request to the Gemini API
func (g *geminiImpl) callAPI(ctx context.Context, req geminiRequest) (*geminiResponse, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.apiURL, g.model)
	if g.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(g.apiKey)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			msg := gErr.Message
			if msg == "" {
				msg = strings.TrimSpace(gErr.Body)
			}
			return nil, &APIError{StatusCode: gErr.Code, Message: msg}
		}
		return nil, fmt.Errorf("gemini: %w", err)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}

	return &result, nil
}

// transformRequest converts request to Gemini API format
func transformRequest(req *Request) geminiRequest {
	geminiReq := geminiRequest{
		Contents: make([]geminiContent, len(req.Messages)),
	}

	if req.SystemInstruction != "" {
		geminiReq.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}

	for i, msg := range req.Messages {
		geminiReq.Contents[i] = geminiContent{
			Role:  msg.Role,
			Parts: []geminiPart{{Text: msg.Text}},
		}
	}

	if req.Temperature > 0 || req.MaxTokens > 0 || req.ResponseSchema != nil {
		geminiReq.GenerationConfig = &geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
		if req.ResponseSchema != nil {
			geminiReq.GenerationConfig.ResponseMimeType = jsonMimeType
			geminiReq.GenerationConfig.ResponseSchema = ConvertSchema(req.ResponseSchema)
		}
	}

	return geminiReq
}

// transformResponse converts Gemini API response to standard format
func transformResponse(resp *geminiResponse) *Response {
	out := &Response{
		Usage: &Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		},
	}
	if resp.PromptFeedback != nil {
		out.Blocked = resp.PromptFeedback.BlockReason
	}
	if len(resp.Candidates) == 0 {
		return out
	}

	candidate := resp.Candidates[0]
	out.FinishReason = candidate.FinishReason

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	out.Text = sb.String()
	return out
}

// ConvertSchema rewrites a JSON Schema into the OpenAPI subset Gemini accepts:
// type names are upper-cased and additionalProperties is dropped.
func ConvertSchema(schema map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(schema))
	for k, v := range schema {
		switch k {
		case "additionalProperties", "$schema":
			continue
		case "type":
			if s, ok := v.(string); ok {
				out[k] = strings.ToUpper(s)
				continue
			}
			out[k] = v
		case "properties":
			props, ok := v.(map[string]interface{})
			if !ok {
				out[k] = v
				continue
			}
			converted := make(map[string]interface{}, len(props))
			for name, prop := range props {
				if m, ok := prop.(map[string]interface{}); ok {
					converted[name] = ConvertSchema(m)
				} else {
					converted[name] = prop
				}
			}
			out[k] = converted
		case "items":
			if m, ok := v.(map[string]interface{}); ok {
				out[k] = ConvertSchema(m)
				continue
			}
			out[k] = v
		default:
			out[k] = v
		}
	}
	return out
}
