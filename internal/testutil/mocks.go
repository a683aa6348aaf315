package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/translation"
)

// MockTranslator mocks the translation service
type MockTranslator struct {
	Translations map[string]translation.Result
	Errors       map[string]error

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, targetLanguage string) (translation.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (->%s)", text, targetLanguage))
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return translation.Result{}, err
	}

	if res, ok := m.Translations[text]; ok {
		return res, nil
	}

	// Default mock translation
	return translation.Result{Translation: fmt.Sprintf("mock translation of %s", text)}, nil
}

// CallCount returns the number of Translate calls so far
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockDictionary mocks the dictionary client
type MockDictionary struct {
	Entries map[string]dictionary.Entry
	Calls   []string
}

// Lookup mocks a dictionary lookup; unknown words yield ErrNotFound
func (m *MockDictionary) Lookup(ctx context.Context, word string) (dictionary.Entry, error) {
	m.Calls = append(m.Calls, word)
	if entry, ok := m.Entries[word]; ok {
		return entry, nil
	}
	return dictionary.Entry{}, dictionary.ErrNotFound
}

// NewMemoryStore creates a flashcard store on an in-memory KV
func NewMemoryStore() *flashcard.Store {
	return flashcard.NewStore(flashcard.NewKVRepository(flashcard.NewMemoryKV()))
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateCards returns n distinct sample cards
func (g *TestDataGenerator) GenerateCards(n int) [][3]string {
	words := [][3]string{
		{"猫", "cat", "ねこ"},
		{"犬", "dog", "いぬ"},
		{"山", "mountain", "やま"},
		{"川", "river", "かわ"},
		{"hello", "hola", ""},
		{"book", "libro", ""},
	}
	if n > len(words) {
		n = len(words)
	}
	return words[:n]
}

// SeedDeck adds the sample cards to deckID and returns their ids
func (g *TestDataGenerator) SeedDeck(ctx context.Context, store *flashcard.Store, deckID string, n int) ([]string, error) {
	var ids []string
	for _, w := range g.GenerateCards(n) {
		card, err := store.AddCard(ctx, deckID, w[0], w[1], w[2])
		if err != nil {
			return nil, err
		}
		ids = append(ids, card.ID)
	}
	return ids, nil
}
