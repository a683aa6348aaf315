package study

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/flashcard"
)

var (
	ErrEmptyDeck        = errors.New("deck has no cards")
	ErrNotInRound       = errors.New("no round in progress")
	ErrNotRoundComplete = errors.New("round is not complete")
	ErrSessionActive    = errors.New("a session is already active")
	ErrNothingToRepeat  = errors.New("every card of the round is known")
)

// State of a session
type State int

const (
	StateIdle State = iota
	StateInRound
	StateRoundComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInRound:
		return "in-round"
	case StateRoundComplete:
		return "round-complete"
	default:
		return "unknown"
	}
}

// Stats summarizes a round
type Stats struct {
	Known      int `json:"known"`
	Unknown    int `json:"unknown"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func computeStats(cards []flashcard.Card) Stats {
	st := Stats{Total: len(cards)}
	for _, c := range cards {
		if c.Known {
			st.Known++
		}
	}
	st.Unknown = st.Total - st.Known
	if st.Total > 0 {
		st.Percentage = int(math.Round(float64(st.Known) / float64(st.Total) * 100))
	}
	return st
}

// DeckStore is the part of the flashcard store a session needs
type DeckStore interface {
	GetDeck(ctx context.Context, deckID string) (flashcard.Deck, error)
	UpdateCards(ctx context.Context, deckID string, fn func(cards []flashcard.Card)) (flashcard.Deck, error)
}

// Session is a single study session. It is not safe for concurrent use.
type Session struct {
	store DeckStore
	log   *zap.Logger

	state     State
	deckID    string
	deckName  string
	round     int
	cards     []flashcard.Card
	cursor    int
	stats     Stats
	restarted bool
}

// NewSession creates an idle session
func NewSession(store DeckStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{store: store, log: log, round: 1}
}

func (s *Session) State() State     { return s.state }
func (s *Session) Round() int       { return s.round }
func (s *Session) Stats() Stats     { return s.stats }
func (s *Session) DeckID() string   { return s.deckID }
func (s *Session) DeckName() string { return s.deckName }

// Restarted reports whether the last Continue found nothing left to repeat
// and started over with the full deck
func (s *Session) Restarted() bool { return s.restarted }

// Progress returns the cursor position and the size of the working set
func (s *Session) Progress() (int, int) {
	return s.cursor, len(s.cards)
}

// Current returns the card to show
func (s *Session) Current() (flashcard.Card, bool) {
	if s.state != StateInRound || s.cursor >= len(s.cards) {
		return flashcard.Card{}, false
	}
	return s.cards[s.cursor], true
}

// Start begins round 1 over a copy of all cards of the deck
func (s *Session) Start(ctx context.Context, deckID string) error {
	if s.state != StateIdle {
		return ErrSessionActive
	}

	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	if len(deck.Cards) == 0 {
		return ErrEmptyDeck
	}

	s.deckID = deck.ID
	s.deckName = deck.Name
	s.begin(1, deck.Cards)
	s.restarted = false
	s.log.Debug("study session started", zap.String("deck", deck.ID), zap.Int("cards", len(deck.Cards)))
	return nil
}

func (s *Session) begin(round int, cards []flashcard.Card) {
	s.state = StateInRound
	s.round = round
	s.cards = append([]flashcard.Card(nil), cards...)
	s.cursor = 0
	s.stats = Stats{}
}

// MarkAndAdvance records whether the current card is known and moves on.
// After the last card the round is committed and its stats computed. If no
// card of the round is unknown the deck is reset and the session goes idle.
func (s *Session) MarkAndAdvance(ctx context.Context, known bool) error {
	if s.state != StateInRound || s.cursor >= len(s.cards) {
		return ErrNotInRound
	}

	s.cards[s.cursor].Known = known
	s.cursor++
	if s.cursor < len(s.cards) {
		return nil
	}

	s.stats = computeStats(s.cards)
	mastered := s.stats.Unknown == 0
	if err := s.commit(ctx, s.cards, mastered); err != nil {
		return err
	}

	s.log.Debug("round complete",
		zap.Int("round", s.round),
		zap.Int("known", s.stats.Known),
		zap.Int("total", s.stats.Total))

	if mastered {
		s.reset()
		return nil
	}
	s.state = StateRoundComplete
	return nil
}

// Continue starts the next round with the cards still unknown in the store
func (s *Session) Continue(ctx context.Context) error {
	if s.state != StateRoundComplete {
		return ErrNotRoundComplete
	}
	if s.stats.Unknown == 0 {
		return ErrNothingToRepeat
	}

	deck, err := s.store.GetDeck(ctx, s.deckID)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	if len(deck.Cards) == 0 {
		s.reset()
		return ErrEmptyDeck
	}

	var unknown []flashcard.Card
	for _, c := range deck.Cards {
		if !c.Known {
			unknown = append(unknown, c)
		}
	}

	if len(unknown) == 0 {
		// Someone else marked the rest known in the meantime.
		deck, err = s.store.UpdateCards(ctx, s.deckID, resetKnown)
		if err != nil {
			return fmt.Errorf("failed to reset deck: %w", err)
		}
		s.begin(1, deck.Cards)
		s.restarted = true
		return nil
	}

	s.begin(s.round+1, unknown)
	s.restarted = false
	return nil
}

// Finish ends the session. Cards marked so far in an unfinished round are
// committed; the round's stats cover only those cards.
func (s *Session) Finish(ctx context.Context) (Stats, error) {
	switch s.state {
	case StateInRound:
		marked := s.cards[:s.cursor]
		s.stats = computeStats(marked)
		if len(marked) > 0 {
			if err := s.commit(ctx, marked, false); err != nil {
				return s.stats, err
			}
		}
	case StateIdle:
		return s.stats, nil
	}

	stats := s.stats
	s.state = StateIdle
	s.round = 1
	s.cards = nil
	s.cursor = 0
	return stats, nil
}

// commit writes the known flags of cards back to the deck and counts a
// review for each of them. With resetAll every card of the deck ends unknown.
func (s *Session) commit(ctx context.Context, cards []flashcard.Card, resetAll bool) error {
	byID := make(map[string]bool, len(cards))
	for _, c := range cards {
		byID[c.ID] = c.Known
	}

	_, err := s.store.UpdateCards(ctx, s.deckID, func(deck []flashcard.Card) {
		for i := range deck {
			if known, ok := byID[deck[i].ID]; ok {
				deck[i].Known = known
				deck[i].ReviewCount++
			}
		}
		if resetAll {
			resetKnown(deck)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to save study progress: %w", err)
	}
	return nil
}

func (s *Session) reset() {
	s.state = StateIdle
	s.round = 1
	s.cards = nil
	s.cursor = 0
}

func resetKnown(cards []flashcard.Card) {
	for i := range cards {
		cards[i].Known = false
	}
}
