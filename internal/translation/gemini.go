package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string // optional, for proxies and tests
	HTTPClient      *http.Client
	Temperature     float32
	MaxOutputTokens int32
}

// GeminiBackend calls the Gemini generateContent API
type GeminiBackend struct {
	client *genai.Client
	config GeminiConfig
}

// NewGeminiBackend creates a Gemini backend
func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{client: client, config: cfg}, nil
}

// Generate sends the prompt and returns the first candidate's first text part
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.config.Temperature),
		MaxOutputTokens: g.config.MaxOutputTokens,
	})
	if err != nil {
		return "", g.wrapError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// Client exposes the underlying genai client for model listing
func (g *GeminiBackend) Client() *genai.Client {
	return g.client
}

// Name returns the backend name
func (g *GeminiBackend) Name() string {
	return "gemini"
}

func (g *GeminiBackend) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Backend: g.Name(), Code: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &StatusError{Backend: g.Name(), Code: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return fmt.Errorf("Gemini API error: %w", err)
}
