package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Source returns the raw model ids of one backend
type Source interface {
	ModelIDs(ctx context.Context) ([]string, error)
	Name() string
}

// Lister handles listing available backend models
type Lister struct {
	source Source
}

// NewLister creates a new model lister
func NewLister(source Source) *Lister {
	return &Lister{source: source}
}

// ListAvailableModels writes the backend's models to w, translation capable
// models first
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	ids, err := l.source.ModelIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels, otherModels := Categorize(ids)

	fmt.Fprintf(w, "Available %s Models:\n", l.source.Name())
	fmt.Fprintln(w, "\nChat/Translation Models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}

	if len(otherModels) > 0 {
		fmt.Fprintln(w, "\nOther Models:")
		for _, model := range otherModels {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	return nil
}

// Categorize splits model ids into chat capable and other models, each sorted
func Categorize(ids []string) (chat, other []string) {
	for _, id := range ids {
		if isChatModel(id) {
			chat = append(chat, id)
		} else {
			other = append(other, id)
		}
	}
	sort.Strings(chat)
	sort.Strings(other)
	return chat, other
}

func isChatModel(id string) bool {
	for _, skip := range []string{"embedding", "tts", "audio", "dall-e", "whisper", "imagen", "aqa", "moderation"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.Contains(id, "gpt") || strings.Contains(id, "gemini") ||
		strings.Contains(id, "chat") || strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3")
}

// OpenAISource lists models through the OpenAI API
type OpenAISource struct {
	client *openai.Client
}

// NewOpenAISource creates a source backed by client
func NewOpenAISource(client *openai.Client) *OpenAISource {
	return &OpenAISource{client: client}
}

// ModelIDs returns the ids of all models visible to the API key
func (s *OpenAISource) ModelIDs(ctx context.Context) ([]string, error) {
	list, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}
	return ids, nil
}

// Name returns the backend name
func (s *OpenAISource) Name() string {
	return "OpenAI"
}

// GeminiSource lists models through the Gemini API
type GeminiSource struct {
	client *genai.Client
}

// NewGeminiSource creates a source backed by client
func NewGeminiSource(client *genai.Client) *GeminiSource {
	return &GeminiSource{client: client}
}

// ModelIDs returns the ids of all models, following pagination
func (s *GeminiSource) ModelIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for model, err := range s.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, strings.TrimPrefix(model.Name, "models/"))
	}
	return ids, nil
}

// Name returns the backend name
func (s *GeminiSource) Name() string {
	return "Gemini"
}
