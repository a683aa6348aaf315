package translation

import "context"

const (
	// DefaultTemperature keeps the model close to a literal translation
	DefaultTemperature = 0.1
	// DefaultMaxOutputTokens bounds the generated answer
	DefaultMaxOutputTokens = 500
)

// Backend generates text for a prompt. Implementations return the first
// candidate's first text part, or a *StatusError when the API answered with
// a non-2xx status.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the backend name
	Name() string
}
