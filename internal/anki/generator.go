package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/wordhover/internal/flashcard"
)

// Card represents a single Anki flashcard
type Card struct {
	ID          string // Saved card id, used for a stable note GUID
	Original    string // The selected text
	Reading     string // Hiragana reading, empty if not applicable
	Translation string // Translation into the target language
	Notes       string // Optional notes
}

// FromDeck converts saved flashcards into Anki cards
func FromDeck(deck flashcard.Deck) []Card {
	cards := make([]Card, 0, len(deck.Cards))
	for _, c := range deck.Cards {
		cards = append(cards, Card{
			ID:          c.ID,
			Original:    c.Original,
			Reading:     c.Hiragana,
			Translation: c.Translation,
			Notes:       c.TargetLanguage,
		})
	}
	return cards
}

// GeneratorOptions configures the CSV export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible CSV import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddCards adds several cards
func (g *Generator) AddCards(cards []Card) {
	g.cards = append(g.cards, cards...)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates the CSV file at the configured output path
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	return g.WriteCSV(file)
}

// WriteCSV writes the cards as CSV to w
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		headers := []string{"Original", "Reading", "Translation", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Original,
			card.Reading,
			card.Translation,
			card.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG writes the cards as an Anki package
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkg := NewAPKGGenerator(deckName)
	apkg.AddCards(g.cards)
	return apkg.GenerateAPKG(outputPath)
}

// Stats returns statistics about the cards
func (g *Generator) Stats() (totalCards, withReading int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Reading != "" {
			withReading++
		}
	}
	return
}
