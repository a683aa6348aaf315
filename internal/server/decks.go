package server

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/messaging"
)

type deckRequest struct {
	Name string `json:"name"`
}

type cardRequest struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Hiragana    string `json:"hiragana"`
}

type settingsBody struct {
	TargetLanguage string `json:"targetLanguage"`
}

// storeError maps store errors onto HTTP statuses
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, flashcard.ErrDeckNotFound):
		writeError(w, http.StatusNotFound, "Deck not found", nil)
	case errors.Is(err, flashcard.ErrEmptyName), errors.Is(err, flashcard.ErrEmptyLanguage):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		s.log.Error("store operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Store error", err)
	}
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.cfg.Store.ListDecks(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.cfg.Store.GetDeck(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	deck, err := s.cfg.Store.CreateDeck(r.Context(), req.Name)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleRenameDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	deck, err := s.cfg.Store.RenameDeck(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.DeleteDeck(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if strings.TrimSpace(req.Original) == "" {
		writeError(w, http.StatusBadRequest, "original must not be empty", nil)
		return
	}

	deckID := r.PathValue("id")
	card, err := s.cfg.Store.AddCard(r.Context(), deckID, req.Original, req.Translation, req.Hiragana)
	if err != nil {
		s.storeError(w, err)
		return
	}

	if n, err := s.cfg.Store.CardCount(r.Context(), deckID); err == nil {
		s.cfg.Hub.Publish(messaging.FlashcardSaved(deckID, n))
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	removed, err := s.cfg.Store.DeleteCard(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Card not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	lang, err := s.cfg.Store.TargetLanguage(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsBody{TargetLanguage: lang})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsBody
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if err := s.cfg.Store.SetTargetLanguage(r.Context(), req.TargetLanguage); err != nil {
		s.storeError(w, err)
		return
	}

	lang := strings.TrimSpace(req.TargetLanguage)
	s.cfg.Hub.Publish(messaging.UpdateSettings(lang))
	writeJSON(w, http.StatusOK, settingsBody{TargetLanguage: lang})
}
