package anki

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/snonux/wordhover/internal/flashcard"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "anki_import.csv" {
		t.Errorf("Expected output path 'anki_import.csv', got '%s'", opts.OutputPath)
	}

	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestFromDeck(t *testing.T) {
	deck := flashcard.Deck{
		ID:   "deck1",
		Name: "Deck 1",
		Cards: []flashcard.Card{
			{ID: "1", Original: "猫", Translation: "cat", Hiragana: "ねこ", TargetLanguage: "English", CreatedAt: time.Now()},
			{ID: "2", Original: "hello", Translation: "hola", TargetLanguage: "Spanish", Known: true},
		},
	}

	cards := FromDeck(deck)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	want := Card{ID: "1", Original: "猫", Reading: "ねこ", Translation: "cat", Notes: "English"}
	if cards[0] != want {
		t.Errorf("cards[0] = %+v, want %+v", cards[0], want)
	}
	if cards[1].Reading != "" {
		t.Errorf("Expected empty reading, got %q", cards[1].Reading)
	}
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name      string
		headers   bool
		cards     []Card
		wantRows  int
		wantFirst []string
	}{
		{
			name:      "with headers",
			headers:   true,
			cards:     []Card{{Original: "猫", Reading: "ねこ", Translation: "cat"}},
			wantRows:  2,
			wantFirst: []string{"Original", "Reading", "Translation", "Notes"},
		},
		{
			name:      "without headers",
			headers:   false,
			cards:     []Card{{Original: "犬, 狗", Translation: "dog \"pet\""}},
			wantRows:  1,
			wantFirst: []string{"犬, 狗", "", "dog \"pet\"", ""},
		},
		{
			name:     "empty",
			headers:  false,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(&GeneratorOptions{IncludeHeaders: tt.headers})
			gen.AddCards(tt.cards)

			var buf bytes.Buffer
			if err := gen.WriteCSV(&buf); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}

			records, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("invalid CSV: %v", err)
			}
			if len(records) != tt.wantRows {
				t.Fatalf("got %d rows, want %d", len(records), tt.wantRows)
			}
			if tt.wantFirst == nil {
				return
			}
			for i, v := range tt.wantFirst {
				if records[0][i] != v {
					t.Errorf("row 0 col %d = %q, want %q", i, records[0][i], v)
				}
			}
		})
	}
}

func TestGenerateCSVFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: out, IncludeHeaders: true})
	gen.AddCard(Card{Original: "山", Reading: "やま", Translation: "mountain"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	want := "Original,Reading,Translation,Notes\n山,やま,mountain,\n"
	if string(data) != want {
		t.Errorf("CSV = %q, want %q", data, want)
	}
}

func TestGeneratorAPKG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.apkg")
	gen := NewGenerator(nil)
	gen.AddCard(Card{Original: "川", Translation: "river"})

	if err := gen.GenerateAPKG(out, "Deck 1"); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("APKG not written: %v", err)
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCards([]Card{
		{Original: "猫", Reading: "ねこ"},
		{Original: "cat"},
		{Original: "犬", Reading: "いぬ"},
	})

	total, withReading := gen.Stats()
	if total != 3 {
		t.Errorf("Expected 3 total cards, got %d", total)
	}
	if withReading != 2 {
		t.Errorf("Expected 2 cards with reading, got %d", withReading)
	}
	if len(gen.GetCards()) != 3 {
		t.Errorf("GetCards() returned %d cards", len(gen.GetCards()))
	}
}
