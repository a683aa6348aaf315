package translation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// MaxTextLength is the longest selection, in characters, that is translated
	MaxTextLength = 500
	// DefaultTargetLanguage is used when no language is configured
	DefaultTargetLanguage = "English"
)

// Translator translates selected text through a Backend
type Translator struct {
	backend Backend
	log     *zap.Logger
}

// NewTranslator creates a new translator instance
func NewTranslator(backend Backend, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{
		backend: backend,
		log:     log.With(zap.String("backend", backend.Name())),
	}
}

// Validate checks a selection before it is sent anywhere
func Validate(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return NewValidationError("Empty Selection", "Select some text to translate.")
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return NewValidationError("Text Too Long",
			fmt.Sprintf("Selections are limited to %d characters (got %d).", MaxTextLength, n))
	}
	return nil
}

// Translate translates text into targetLanguage. Any returned error is a *Error.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (Result, error) {
	if err := Validate(text); err != nil {
		return Result{}, err
	}
	text = strings.TrimSpace(text)
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}

	t.log.Debug("translation request",
		zap.String("target_language", targetLanguage),
		zap.Int("length", utf8.RuneCountInString(text)))

	raw, err := t.backend.Generate(ctx, BuildPrompt(text, targetLanguage))
	if err != nil {
		classified := Classify(err)
		t.log.Warn("translation failed",
			zap.String("code", classified.Code()),
			zap.Int("status", classified.Status),
			zap.Error(err))
		return Result{}, classified
	}

	res := ParseResponse(raw)
	t.log.Debug("translation response",
		zap.String("translation", res.Translation),
		zap.String("hiragana", res.Hiragana))

	return res, nil
}

// Probe sends a tiny request to check API connectivity
func (t *Translator) Probe(ctx context.Context) error {
	_, err := t.backend.Generate(ctx, `Test message. Respond with: {"test": "success"}`)
	if err != nil {
		return Classify(err)
	}
	return nil
}

// Backend returns the backend in use
func (t *Translator) Backend() Backend {
	return t.backend
}
