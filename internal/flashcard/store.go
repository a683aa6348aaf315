package flashcard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal"
)

var (
	// ErrDeckNotFound is returned when a deck id matches no deck
	ErrDeckNotFound = errors.New("deck not found")
	// ErrEmptyName is returned for blank deck names
	ErrEmptyName = errors.New("deck name must not be empty")
	// ErrEmptyLanguage is returned for a blank target language
	ErrEmptyLanguage = errors.New("target language must not be empty")
)

// Store implements deck and card operations on top of a Repository. Every
// operation re-reads the full state, so several Stores (processes) may share
// one backend; the last writer wins.
type Store struct {
	repo Repository
	mu   sync.Mutex
	now  func() time.Time
	log  *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithNow overrides the clock used for card timestamps and ids
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a store over repo
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		now:  time.Now,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// view runs fn on a freshly read state without writing it back
func (s *Store) view(ctx context.Context, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	return fn(&state)
}

// update reads the state, applies fn and writes the result. fn returns
// whether it changed anything; unchanged state is not written.
func (s *Store) update(ctx context.Context, fn func(*State) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(&state)
	if err != nil || !changed {
		return err
	}
	return s.repo.Set(ctx, state)
}

func ensureDefaultDeck(state *State) bool {
	if len(state.Decks) > 0 {
		return false
	}
	state.Decks = []Deck{{ID: DefaultDeckID, Name: DefaultDeckName, Cards: []Card{}}}
	return true
}

func migrateLegacyCards(state *State) int {
	if len(state.Flashcards) == 0 {
		return 0
	}
	ensureDefaultDeck(state)

	idx := state.deckIndex(DefaultDeckID)
	if idx < 0 {
		idx = 0
	}
	n := len(state.Flashcards)
	state.Decks[idx].Cards = append(state.Decks[idx].Cards, state.Flashcards...)
	state.Flashcards = nil
	return n
}

// EnsureDefaultDeck creates the default deck when the store has no decks
func (s *Store) EnsureDefaultDeck(ctx context.Context) error {
	return s.update(ctx, func(state *State) (bool, error) {
		return ensureDefaultDeck(state), nil
	})
}

// MigrateLegacyCards moves cards saved before decks existed into the default
// deck and removes the legacy record. It returns the number of cards moved.
func (s *Store) MigrateLegacyCards(ctx context.Context) (int, error) {
	var moved int
	err := s.update(ctx, func(state *State) (bool, error) {
		moved = migrateLegacyCards(state)
		return moved > 0, nil
	})
	if moved > 0 {
		s.log.Info("migrated legacy flashcards", zap.Int("count", moved))
	}
	return moved, err
}

// ListDecks returns all decks after making sure the default deck exists and
// legacy cards are migrated
func (s *Store) ListDecks(ctx context.Context) ([]Deck, error) {
	var decks []Deck
	err := s.update(ctx, func(state *State) (bool, error) {
		created := ensureDefaultDeck(state)
		moved := migrateLegacyCards(state)
		decks = state.Clone().Decks
		return created || moved > 0, nil
	})
	return decks, err
}

// GetDeck returns a copy of one deck
func (s *Store) GetDeck(ctx context.Context, deckID string) (Deck, error) {
	var deck Deck
	err := s.view(ctx, func(state *State) error {
		idx := state.deckIndex(deckID)
		if idx < 0 {
			return ErrDeckNotFound
		}
		deck = state.Decks[idx].Clone()
		return nil
	})
	return deck, err
}

// CreateDeck appends an empty deck with a fresh id
func (s *Store) CreateDeck(ctx context.Context, name string) (Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deck{}, ErrEmptyName
	}

	deck := Deck{ID: uuid.NewString(), Name: name, Cards: []Card{}}
	err := s.update(ctx, func(state *State) (bool, error) {
		state.Decks = append(state.Decks, deck)
		return true, nil
	})
	if err != nil {
		return Deck{}, err
	}
	s.log.Debug("deck created", zap.String("id", deck.ID), zap.String("name", name))
	return deck, nil
}

// RenameDeck changes a deck's display name
func (s *Store) RenameDeck(ctx context.Context, deckID, name string) (Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deck{}, ErrEmptyName
	}

	var deck Deck
	err := s.update(ctx, func(state *State) (bool, error) {
		idx := state.deckIndex(deckID)
		if idx < 0 {
			return false, ErrDeckNotFound
		}
		state.Decks[idx].Name = name
		deck = state.Decks[idx].Clone()
		return true, nil
	})
	return deck, err
}

// DeleteDeck removes a deck and its cards. Removing the last deck is allowed;
// the default deck is recreated by the next save or listing.
func (s *Store) DeleteDeck(ctx context.Context, deckID string) error {
	return s.update(ctx, func(state *State) (bool, error) {
		idx := state.deckIndex(deckID)
		if idx < 0 {
			return false, ErrDeckNotFound
		}
		state.Decks = append(state.Decks[:idx], state.Decks[idx+1:]...)
		return true, nil
	})
}

// AddCard appends a new unknown card to the deck
func (s *Store) AddCard(ctx context.Context, deckID, original, translation, hiragana string) (Card, error) {
	var card Card
	err := s.update(ctx, func(state *State) (bool, error) {
		ensureDefaultDeck(state)

		idx := state.deckIndex(deckID)
		if idx < 0 {
			return false, ErrDeckNotFound
		}

		deck := &state.Decks[idx]
		now := s.now()
		id := internal.GenerateCardIDAt(now, original)
		for deck.CardIndex(id) >= 0 {
			now = now.Add(time.Millisecond)
			id = internal.GenerateCardIDAt(now, original)
		}

		card = Card{
			ID:             id,
			Original:       original,
			Translation:    translation,
			Hiragana:       hiragana,
			TargetLanguage: state.language(),
			CreatedAt:      now,
		}
		deck.Cards = append(deck.Cards, card)
		return true, nil
	})
	if err != nil {
		return Card{}, err
	}
	s.log.Debug("card saved", zap.String("deck", deckID), zap.String("id", card.ID))
	return card, nil
}

// DeleteCard removes the first card with the id from any deck or the legacy
// list. It reports whether a card was removed; a missing card is no error.
func (s *Store) DeleteCard(ctx context.Context, cardID string) (bool, error) {
	var removed bool
	err := s.update(ctx, func(state *State) (bool, error) {
		for i := range state.Decks {
			if j := state.Decks[i].CardIndex(cardID); j >= 0 {
				cards := state.Decks[i].Cards
				state.Decks[i].Cards = append(cards[:j], cards[j+1:]...)
				removed = true
				return true, nil
			}
		}
		for j := range state.Flashcards {
			if state.Flashcards[j].ID == cardID {
				state.Flashcards = append(state.Flashcards[:j], state.Flashcards[j+1:]...)
				removed = true
				return true, nil
			}
		}
		return false, nil
	})
	return removed, err
}

// UpdateCards lets fn modify the cards of a deck in place and persists the
// result. fn must not add or remove cards.
func (s *Store) UpdateCards(ctx context.Context, deckID string, fn func(cards []Card)) (Deck, error) {
	var deck Deck
	err := s.update(ctx, func(state *State) (bool, error) {
		idx := state.deckIndex(deckID)
		if idx < 0 {
			return false, ErrDeckNotFound
		}
		fn(state.Decks[idx].Cards)
		deck = state.Decks[idx].Clone()
		return true, nil
	})
	return deck, err
}

// CardCount returns the number of cards in the deck
func (s *Store) CardCount(ctx context.Context, deckID string) (int, error) {
	deck, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return 0, err
	}
	return len(deck.Cards), nil
}

// TargetLanguage returns the configured language, "English" when unset
func (s *Store) TargetLanguage(ctx context.Context) (string, error) {
	var lang string
	err := s.view(ctx, func(state *State) error {
		lang = state.language()
		return nil
	})
	return lang, err
}

// SetTargetLanguage stores the language used for new translations
func (s *Store) SetTargetLanguage(ctx context.Context, lang string) error {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ErrEmptyLanguage
	}
	return s.update(ctx, func(state *State) (bool, error) {
		if state.TargetLanguage == lang {
			return false, nil
		}
		state.TargetLanguage = lang
		return true, nil
	})
}

// Snapshot returns a copy of the raw persisted state
func (s *Store) Snapshot(ctx context.Context) (State, error) {
	var snap State
	err := s.view(ctx, func(state *State) error {
		snap = state.Clone()
		return nil
	})
	return snap, err
}
