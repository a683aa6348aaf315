package processor

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/testutil"
)

func TestDeckCommands(t *testing.T) {
	ctx := context.Background()
	p, store, _, out := newTestProcessor(t, "")

	if err := p.ListDecks(ctx); err != nil {
		t.Fatalf("ListDecks failed: %v", err)
	}
	testutil.AssertContains(t, out.String(), "ID", "deck1", "Deck 1")

	deck, err := p.CreateDeck(ctx, "Verbs")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	testutil.AssertContains(t, out.String(), "Created deck Verbs ("+deck.ID+")")

	if err := p.RenameDeck(ctx, deck.ID, "Japanese verbs"); err != nil {
		t.Fatalf("RenameDeck failed: %v", err)
	}
	if err := p.AddCard(ctx, deck.ID, "食べる", "to eat", "たべる"); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	out.Reset()
	if err := p.ShowDeck(ctx, deck.ID); err != nil {
		t.Fatalf("ShowDeck failed: %v", err)
	}
	testutil.AssertContains(t, out.String(), "Japanese verbs (1 cards)", "食べる", "たべる", "to eat")

	got, err := store.GetDeck(ctx, deck.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if err := p.DeleteCard(ctx, got.Cards[0].ID); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	if err := p.DeleteCard(ctx, got.Cards[0].ID); err == nil {
		t.Error("Expected error deleting a missing card")
	}

	if err := p.DeleteDeck(ctx, deck.ID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if err := p.DeleteDeck(ctx, deck.ID); !errors.Is(err, flashcard.ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound, got %v", err)
	}
}

func TestDeckCommands_Validation(t *testing.T) {
	ctx := context.Background()
	p, _, _, _ := newTestProcessor(t, "")

	if _, err := p.CreateDeck(ctx, "  "); !errors.Is(err, flashcard.ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
	if err := p.RenameDeck(ctx, "nope", "x"); !errors.Is(err, flashcard.ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound, got %v", err)
	}
	if err := p.AddCard(ctx, "nope", "a", "b", ""); !errors.Is(err, flashcard.ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	p, store, _, out := newTestProcessor(t, "")

	if err := p.Settings(ctx, ""); err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	testutil.AssertContains(t, out.String(), "Target language: English")

	if err := p.Settings(ctx, "German"); err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	testutil.AssertContains(t, out.String(), "Target language: German")

	lang, err := store.TargetLanguage(ctx)
	if err != nil || lang != "German" {
		t.Errorf("TargetLanguage = %q, %v", lang, err)
	}
}
