package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordhover/internal/models"
	"codeberg.org/snonux/wordhover/internal/translation"
)

// Supported translation providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewBackend creates the translation backend selected by backend.provider
func NewBackend(ctx context.Context) (translation.Backend, error) {
	provider := strings.ToLower(viper.GetString("backend.provider"))
	model := viper.GetString("backend.model")
	baseURL := viper.GetString("backend.base_url")

	switch provider {
	case "", ProviderGemini:
		key := GetGeminiKey()
		if key == "" {
			return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .wordhover.yaml")
		}
		return translation.NewGeminiBackend(ctx, translation.GeminiConfig{
			APIKey:  key,
			Model:   model,
			BaseURL: baseURL,
		})
	case ProviderOpenAI:
		key := GetOpenAIKey()
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .wordhover.yaml")
		}
		return translation.NewOpenAIBackend(translation.OpenAIConfig{
			APIKey:  key,
			Model:   model,
			BaseURL: baseURL,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q (use %s or %s)", provider, ProviderGemini, ProviderOpenAI)
	}
}

// NewModelSource returns the model listing source for a backend
func NewModelSource(backend translation.Backend) (models.Source, error) {
	switch b := backend.(type) {
	case *translation.GeminiBackend:
		return models.NewGeminiSource(b.Client()), nil
	case *translation.OpenAIBackend:
		return models.NewOpenAISource(b.Client()), nil
	default:
		return nil, fmt.Errorf("backend %s cannot list models", backend.Name())
	}
}
