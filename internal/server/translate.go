package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/gate"
	"codeberg.org/snonux/wordhover/internal/translation"
)

type translateRequest struct {
	Word           string `json:"word"`
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// translateResponse mirrors what the tooltip renders. Failures carry the
// message in Translation so a client that only reads that field still shows
// something useful.
type translateResponse struct {
	Translation string `json:"translation"`
	Hiragana    string `json:"hiragana"`
	Error       bool   `json:"error,omitempty"`
	ErrorType   string `json:"errorType,omitempty"`
	DebugInfo   string `json:"debugInfo,omitempty"`
	Code        string `json:"code,omitempty"`
	Retryable   bool   `json:"retryable,omitempty"`
}

// busyResponse tells the caller to do nothing
type busyResponse struct {
	Translation *string `json:"translation"`
}

func failure(e *translation.Error) translateResponse {
	return translateResponse{
		Translation: e.Error(),
		Error:       true,
		ErrorType:   e.Title,
		DebugInfo:   e.Message,
		Code:        e.Code(),
		Retryable:   e.Retryable(),
	}
}

func statusFor(e *translation.Error) int {
	switch e.Kind {
	case translation.KindValidation:
		if e.Title == "Empty Selection" {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case translation.KindTimeout:
		return http.StatusGatewayTimeout
	case translation.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// translate runs one request through the gate and returns the response body
// and HTTP status
func (s *Server) translate(ctx context.Context, word, lang string) (any, int) {
	if err := translation.Validate(word); err != nil {
		e := translation.Classify(err)
		return failure(e), statusFor(e)
	}

	lang = s.targetLanguage(ctx, lang)

	res := s.cfg.Gate.Do(ctx, gate.Selection{Text: word, TargetLanguage: lang}, s.cfg.Translate)
	switch res.Outcome {
	case gate.OutcomeBusy:
		return busyResponse{}, http.StatusOK
	case gate.OutcomeSuccess:
		return translateResponse{
			Translation: res.Translation.Translation,
			Hiragana:    res.Translation.Hiragana,
		}, http.StatusOK
	default:
		s.log.Warn("translation failed",
			zap.String("outcome", res.Outcome.String()),
			zap.String("code", res.Err.Code()),
			zap.Error(res.Err))
		return failure(res.Err), statusFor(res.Err)
	}
}

// targetLanguage returns lang, or the stored language when lang is empty
func (s *Server) targetLanguage(ctx context.Context, lang string) string {
	if strings.TrimSpace(lang) != "" || s.cfg.Store == nil {
		return lang
	}
	stored, err := s.cfg.Store.TargetLanguage(ctx)
	if err != nil {
		s.log.Warn("failed to read target language", zap.Error(err))
	}
	return stored
}

// translateFunc is the configured translate function with the stored
// language filled in
func (s *Server) translateFunc(ctx context.Context, text, lang string) (translation.Result, error) {
	return s.cfg.Translate(ctx, text, s.targetLanguage(ctx, lang))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing word or targetLanguage parameter", err)
		return
	}
	word := req.Word
	if word == "" {
		word = req.Text
	}

	body, status := s.translate(r.Context(), word, req.TargetLanguage)
	writeJSON(w, status, body)
}

func (s *Server) handleJisho(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, "Missing word parameter", nil)
		return
	}
	if s.cfg.Dictionary == nil {
		writeError(w, http.StatusServiceUnavailable, "Dictionary not configured", nil)
		return
	}

	entry, err := s.cfg.Dictionary.Lookup(r.Context(), word)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, entry)
	case errors.Is(err, dictionary.ErrNotFound):
		writeError(w, http.StatusNotFound, "Word not found", nil)
	case errors.Is(err, dictionary.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Dictionary unavailable", err)
	default:
		s.log.Warn("dictionary lookup failed", zap.String("word", word), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Proxy error", err)
	}
}
