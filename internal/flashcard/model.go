package flashcard

import (
	"time"
)

const (
	// DefaultDeckID is the id of the deck created when the store is empty
	DefaultDeckID = "deck1"
	// DefaultDeckName is its display name
	DefaultDeckName = "Deck 1"
	// DefaultTargetLanguage is used until the user picks another one
	DefaultTargetLanguage = "English"
)

// Card is one saved translation with mastery tracking
type Card struct {
	ID             string    `json:"id"`
	Original       string    `json:"original"`
	Translation    string    `json:"translation"`
	Hiragana       string    `json:"hiragana"`
	TargetLanguage string    `json:"targetLanguage"`
	CreatedAt      time.Time `json:"createdAt"`
	Known          bool      `json:"known"`
	ReviewCount    int       `json:"reviewCount"`
}

// Deck is a named, ordered collection of cards
type Deck struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Clone returns a deep copy of the deck
func (d Deck) Clone() Deck {
	c := d
	c.Cards = make([]Card, len(d.Cards))
	copy(c.Cards, d.Cards)
	return c
}

// CardIndex returns the index of the card with the given id, or -1
func (d Deck) CardIndex(id string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// State is the persisted record. Flashcards holds cards saved before decks
// existed; it is empty once migrated.
type State struct {
	Decks          []Deck `json:"decks"`
	TargetLanguage string `json:"targetLanguage"`
	Flashcards     []Card `json:"flashcards,omitempty"`
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	c := State{TargetLanguage: s.TargetLanguage}
	if s.Decks != nil {
		c.Decks = make([]Deck, len(s.Decks))
		for i, d := range s.Decks {
			c.Decks[i] = d.Clone()
		}
	}
	if s.Flashcards != nil {
		c.Flashcards = append([]Card(nil), s.Flashcards...)
	}
	return c
}

func (s *State) deckIndex(id string) int {
	for i := range s.Decks {
		if s.Decks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) language() string {
	if s.TargetLanguage == "" {
		return DefaultTargetLanguage
	}
	return s.TargetLanguage
}
