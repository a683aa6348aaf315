// Package server is the local HTTP service the in-page script talks to. It
// proxies translations through the request gate, looks words up in the
// dictionary, manages decks and streams cross-surface messages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal"
	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/gate"
	"codeberg.org/snonux/wordhover/internal/messaging"
)

// DefaultPort is used when neither config nor PORT set one
const DefaultPort = 3005

// Dictionary looks up single words
type Dictionary interface {
	Lookup(ctx context.Context, word string) (dictionary.Entry, error)
}

// Config holds the dependencies of the service
type Config struct {
	Addr       string
	Gate       *gate.Gate
	Translate  gate.TranslateFunc
	Store      *flashcard.Store
	Dictionary Dictionary
	Hub        *messaging.Hub
	Logger     *zap.Logger

	// DebounceWindow and Clock drive selection events on the event stream
	DebounceWindow time.Duration
	Clock          clockwork.Clock
}

// Server serves the HTTP API
type Server struct {
	cfg     Config
	log     *zap.Logger
	handler http.Handler
}

// New creates the server and its routes
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Hub == nil {
		cfg.Hub = messaging.NewHub()
	}
	if cfg.Gate == nil {
		cfg.Gate = gate.New(gate.DefaultTimeout, gate.WithLogger(cfg.Logger))
	}
	if cfg.Addr == "" {
		cfg.Addr = fmt.Sprintf(":%d", DefaultPort)
	}

	s := &Server{cfg: cfg, log: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	mux.HandleFunc("POST /api/gemini", s.handleTranslate)
	mux.HandleFunc("GET /api/jisho", s.handleJisho)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	mux.HandleFunc("GET /api/decks", s.handleListDecks)
	mux.HandleFunc("POST /api/decks", s.handleCreateDeck)
	mux.HandleFunc("GET /api/decks/{id}", s.handleGetDeck)
	mux.HandleFunc("PATCH /api/decks/{id}", s.handleRenameDeck)
	mux.HandleFunc("DELETE /api/decks/{id}", s.handleDeleteDeck)
	mux.HandleFunc("POST /api/decks/{id}/cards", s.handleAddCard)
	mux.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	s.handler = Chain(Recovery(s.log), Logger(s.log), CORS())(mux)
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the message hub the server publishes to
func (s *Server) Hub() *messaging.Hub {
	return s.cfg.Hub
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   internal.Version,
		"inFlight":  s.cfg.Gate.InFlight(),
		"timestamp": time.Now(),
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
