package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal"
	"codeberg.org/snonux/wordhover/internal/anki"
	"codeberg.org/snonux/wordhover/internal/archive"
	"codeberg.org/snonux/wordhover/internal/batch"
	"codeberg.org/snonux/wordhover/internal/dictionary"
	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/translation"
)

// ErrNoTranslator is returned by workflows that need a translation backend
// when none is configured
var ErrNoTranslator = errors.New("no translation backend configured")

// Translator translates selected text
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (translation.Result, error)
}

// Dictionary looks up single words
type Dictionary interface {
	Lookup(ctx context.Context, word string) (dictionary.Entry, error)
}

// Config holds the dependencies of a Processor. Translator and Dictionary
// may be nil for workflows that do not use them.
type Config struct {
	Store      *flashcard.Store
	Translator Translator
	Dictionary Dictionary
	In         io.Reader
	Out        io.Writer
	Logger     *zap.Logger
}

// Processor handles the command-line workflows
type Processor struct {
	store      *flashcard.Store
	translator Translator
	dictionary Dictionary
	in         *bufio.Reader
	out        io.Writer
	log        *zap.Logger
}

// NewProcessor creates a new processor
func NewProcessor(cfg Config) *Processor {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Processor{
		store:      cfg.Store,
		translator: cfg.Translator,
		dictionary: cfg.Dictionary,
		in:         bufio.NewReader(cfg.In),
		out:        cfg.Out,
		log:        cfg.Logger,
	}
}

// loadDeck returns deckID after the default deck and legacy cards are set up
func (p *Processor) loadDeck(ctx context.Context, deckID string) (flashcard.Deck, error) {
	if _, err := p.store.ListDecks(ctx); err != nil {
		return flashcard.Deck{}, err
	}
	deck, err := p.store.GetDeck(ctx, deckID)
	if err != nil {
		return flashcard.Deck{}, fmt.Errorf("deck %q: %w", deckID, err)
	}
	return deck, nil
}

// ProcessSingleWord translates text into the configured target language,
// prints the result and, when save is set, stores it as a card in deckID
func (p *Processor) ProcessSingleWord(ctx context.Context, text string, save bool, deckID string) error {
	if p.translator == nil {
		return ErrNoTranslator
	}

	lang, err := p.store.TargetLanguage(ctx)
	if err != nil {
		return err
	}

	res, err := p.translator.Translate(ctx, text, lang)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s\n", res.Translation)
	if res.Hiragana != "" {
		fmt.Fprintf(p.out, "Reading: %s\n", res.Hiragana)
	}

	if !save {
		return nil
	}
	if res.Translation == translation.NoTranslation {
		return fmt.Errorf("refusing to save %q: no translation available", text)
	}

	card, err := p.store.AddCard(ctx, deckID, text, res.Translation, res.Hiragana)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	count, err := p.store.CardCount(ctx, deckID)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Saved as %s (%d cards in deck)\n", card.ID, count)
	return nil
}

// Lookup prints the dictionary entry for word
func (p *Processor) Lookup(ctx context.Context, word string) error {
	if p.dictionary == nil {
		return errors.New("no dictionary configured")
	}

	entry, err := p.dictionary.Lookup(ctx, word)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", word, err)
	}

	fmt.Fprintf(p.out, "%s", entry.Word)
	if entry.Reading != "" && entry.Reading != entry.Word {
		fmt.Fprintf(p.out, " [%s]", entry.Reading)
	}
	fmt.Fprintf(p.out, "\n  %s\n", entry.Definition)
	return nil
}

// ProcessBatch imports the entries of a batch file into deckID. Lines
// without a translation are translated first; failures are reported and
// skipped.
func (p *Processor) ProcessBatch(ctx context.Context, filename, deckID string) error {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}

	if _, err := p.loadDeck(ctx, deckID); err != nil {
		return err
	}

	lang, err := p.store.TargetLanguage(ctx)
	if err != nil {
		return err
	}

	// Track statistics
	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "Processing %d/%d: %s\n", i+1, len(entries), entry.Original)

		if entry.NeedsTranslation {
			if p.translator == nil {
				fmt.Fprintf(p.out, "  Error: %v\n", ErrNoTranslator)
				errorCount++
				continue
			}
			res, err := p.translator.Translate(ctx, entry.Original, lang)
			if err != nil {
				fmt.Fprintf(p.out, "  Error translating '%s': %v\n", entry.Original, err)
				errorCount++
				continue
			}
			if res.Translation == translation.NoTranslation {
				fmt.Fprintf(p.out, "  No translation for '%s'\n", entry.Original)
				errorCount++
				continue
			}
			entry.Translation = res.Translation
			if entry.Hiragana == "" {
				entry.Hiragana = res.Hiragana
			}
		}

		if _, err := p.store.AddCard(ctx, deckID, entry.Original, entry.Translation, entry.Hiragana); err != nil {
			return fmt.Errorf("failed to save '%s': %w", entry.Original, err)
		}
		processedCount++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Import Summary ===\n")
	fmt.Fprintf(p.out, "Total lines: %d\n", len(entries))
	fmt.Fprintf(p.out, "Imported: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "======================\n")

	p.log.Info("batch import finished",
		zap.String("deck", deckID),
		zap.Int("imported", processedCount),
		zap.Int("errors", errorCount))
	return nil
}

// GenerateAnkiFile exports deckID as an Anki package, or as CSV when csv is
// set. An empty outputPath derives the file name from the deck name.
func (p *Processor) GenerateAnkiFile(ctx context.Context, deckID, outputPath string, csv bool) (string, error) {
	deck, err := p.loadDeck(ctx, deckID)
	if err != nil {
		return "", err
	}
	if len(deck.Cards) == 0 {
		return "", fmt.Errorf("deck %q has no cards", deck.Name)
	}

	if outputPath == "" {
		ext := ".apkg"
		if csv {
			ext = ".csv"
		}
		outputPath = internal.SanitizeFilename(deck.Name) + ext
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: true,
	})
	gen.AddCards(anki.FromDeck(deck))

	if csv {
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		if err := gen.GenerateAPKG(outputPath, deck.Name); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	// Print stats
	total, withReading := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d cards (%d with reading)\n", total, withReading)

	return outputPath, nil
}

// Archive writes a snapshot of the whole store below dir
func (p *Processor) Archive(ctx context.Context, dir string) (string, error) {
	path, err := archive.ArchiveStore(ctx, p.store, dir)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "Store archived to: %s\n", path)
	return path, nil
}
