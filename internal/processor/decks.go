package processor

import (
	"context"
	"fmt"
	"text/tabwriter"

	"codeberg.org/snonux/wordhover/internal/flashcard"
)

// ListDecks prints every deck with its card count
func (p *Processor) ListDecks(ctx context.Context) error {
	decks, err := p.store.ListDecks(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCARDS\tKNOWN")
	for _, deck := range decks {
		known := 0
		for _, c := range deck.Cards {
			if c.Known {
				known++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", deck.ID, deck.Name, len(deck.Cards), known)
	}
	return w.Flush()
}

// ShowDeck prints the cards of one deck
func (p *Processor) ShowDeck(ctx context.Context, deckID string) error {
	deck, err := p.loadDeck(ctx, deckID)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s (%d cards)\n", deck.Name, len(deck.Cards))
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	for _, c := range deck.Cards {
		mark := " "
		if c.Known {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, c.ID, c.Original, c.Hiragana, c.Translation)
	}
	return w.Flush()
}

// CreateDeck creates a deck and prints its id
func (p *Processor) CreateDeck(ctx context.Context, name string) (flashcard.Deck, error) {
	deck, err := p.store.CreateDeck(ctx, name)
	if err != nil {
		return flashcard.Deck{}, err
	}
	fmt.Fprintf(p.out, "Created deck %s (%s)\n", deck.Name, deck.ID)
	return deck, nil
}

// RenameDeck renames a deck
func (p *Processor) RenameDeck(ctx context.Context, deckID, name string) error {
	deck, err := p.store.RenameDeck(ctx, deckID, name)
	if err != nil {
		return fmt.Errorf("deck %q: %w", deckID, err)
	}
	fmt.Fprintf(p.out, "Renamed deck %s to %s\n", deck.ID, deck.Name)
	return nil
}

// DeleteDeck removes a deck and its cards
func (p *Processor) DeleteDeck(ctx context.Context, deckID string) error {
	if err := p.store.DeleteDeck(ctx, deckID); err != nil {
		return fmt.Errorf("deck %q: %w", deckID, err)
	}
	fmt.Fprintf(p.out, "Deleted deck %s\n", deckID)
	return nil
}

// AddCard stores a card with a translation given by the user
func (p *Processor) AddCard(ctx context.Context, deckID, original, translation, hiragana string) error {
	card, err := p.store.AddCard(ctx, deckID, original, translation, hiragana)
	if err != nil {
		return fmt.Errorf("deck %q: %w", deckID, err)
	}
	fmt.Fprintf(p.out, "Added card %s\n", card.ID)
	return nil
}

// DeleteCard removes a card from whichever deck holds it
func (p *Processor) DeleteCard(ctx context.Context, cardID string) error {
	removed, err := p.store.DeleteCard(ctx, cardID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("card %q not found", cardID)
	}
	fmt.Fprintf(p.out, "Deleted card %s\n", cardID)
	return nil
}

// Settings prints the target language, or stores lang when it is not empty
func (p *Processor) Settings(ctx context.Context, lang string) error {
	if lang != "" {
		if err := p.store.SetTargetLanguage(ctx, lang); err != nil {
			return err
		}
	}

	current, err := p.store.TargetLanguage(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Target language: %s\n", current)
	return nil
}
