// Package dictionary looks up Japanese words in the Jisho dictionary.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Jisho word search endpoint
const DefaultBaseURL = "https://jisho.org/api/v1/search/words"

var (
	// ErrNotFound is returned when the dictionary has no entry for the word
	ErrNotFound = errors.New("word not found")
	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("dictionary temporarily unavailable")
)

// Entry is the first match of a lookup
type Entry struct {
	Word       string `json:"word"`
	Reading    string `json:"reading"`
	Definition string `json:"definition"`
}

type searchResponse struct {
	Data []struct {
		Slug     string `json:"slug"`
		Japanese []struct {
			Word    string `json:"word"`
			Reading string `json:"reading"`
		} `json:"japanese"`
		Senses []struct {
			EnglishDefinitions []string `json:"english_definitions"`
			PartsOfSpeech      []string `json:"parts_of_speech"`
		} `json:"senses"`
	} `json:"data"`
}

// Config holds client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger

	// MaxFailures consecutive failures open the breaker for OpenTimeout
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Client queries the dictionary through a circuit breaker
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient creates a dictionary client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	log := cfg.Logger.With(zap.String("adapter", "jisho"))
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		log:        log,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "jisho",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// Lookup returns the first entry for word: its headword, reading and the
// English definitions of the first sense joined with ", "
func (c *Client) Lookup(ctx context.Context, word string) (Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}, fmt.Errorf("jisho: empty word")
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, word)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Entry{}, ErrUnavailable
	}
	if err != nil {
		return Entry{}, err
	}
	return res.(Entry), nil
}

func (c *Client) fetch(ctx context.Context, word string) (Entry, error) {
	reqURL := c.baseURL + "?keyword=" + url.QueryEscape(word)
	c.log.Debug("jisho request", zap.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("jisho: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("jisho: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Entry{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("jisho: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("jisho: read body: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Entry{}, fmt.Errorf("jisho: decode json: %w", err)
	}
	if len(sr.Data) == 0 {
		return Entry{}, ErrNotFound
	}

	first := sr.Data[0]
	entry := Entry{Word: first.Slug}
	if len(first.Japanese) > 0 {
		if first.Japanese[0].Word != "" {
			entry.Word = first.Japanese[0].Word
		}
		entry.Reading = first.Japanese[0].Reading
	}
	if len(first.Senses) > 0 {
		entry.Definition = strings.Join(first.Senses[0].EnglishDefinitions, ", ")
	}

	c.log.Debug("jisho response",
		zap.String("word", word),
		zap.Int("entries", len(sr.Data)))

	return entry, nil
}
