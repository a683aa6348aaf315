package flashcard

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewStore(NewKVRepository(kv), WithNow(fixedNow)), kv
}

func seedLegacy(t *testing.T, kv *MemoryKV, cards ...Card) {
	t.Helper()
	data, err := json.Marshal(cards)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), KeyFlashcards, data))
}

func TestListDecks_CreatesDefaultDeck(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, DefaultDeckID, decks[0].ID)
	assert.Equal(t, DefaultDeckName, decks[0].Name)
	assert.Empty(t, decks[0].Cards)

	_, ok, err := kv.Get(ctx, KeyDecks)
	require.NoError(t, err)
	assert.True(t, ok, "default deck should be persisted")
}

func TestAddCard_ThenListDecks(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	card, err := s.AddCard(ctx, DefaultDeckID, "猫", "cat", "ねこ")
	require.NoError(t, err)
	assert.False(t, card.Known)
	assert.Equal(t, 0, card.ReviewCount)
	assert.Equal(t, DefaultTargetLanguage, card.TargetLanguage)
	assert.Equal(t, fixedNow(), card.CreatedAt)
	assert.NotEmpty(t, card.ID)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	require.Len(t, decks[0].Cards, 1)
	got := decks[0].Cards[0]
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, "猫", got.Original)
	assert.Equal(t, "cat", got.Translation)
	assert.Equal(t, "ねこ", got.Hiragana)
	assert.False(t, got.Known)
	assert.Equal(t, 0, got.ReviewCount)

	removed, err := s.DeleteCard(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	decks, err = s.ListDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks[0].Cards)
}

func TestAddCard_UniqueIDsWithinDeck(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.AddCard(ctx, DefaultDeckID, "猫", "cat", "")
	require.NoError(t, err)
	b, err := s.AddCard(ctx, DefaultDeckID, "猫", "cat", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddCard_UsesTargetLanguage(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTargetLanguage(ctx, "German"))
	card, err := s.AddCard(ctx, DefaultDeckID, "犬", "Hund", "いぬ")
	require.NoError(t, err)
	assert.Equal(t, "German", card.TargetLanguage)
}

func TestAddCard_DeckNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddCard(context.Background(), "nope", "猫", "cat", "")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestDeleteCard_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCard(ctx, DefaultDeckID, "猫", "cat", "")
	require.NoError(t, err)

	removed, err := s.DeleteCard(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := s.CardCount(ctx, DefaultDeckID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteCard_FromLegacyList(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	seedLegacy(t, kv, Card{ID: "old1", Original: "木"}, Card{ID: "old2", Original: "林"})

	removed, err := s.DeleteCard(ctx, "old1")
	require.NoError(t, err)
	assert.True(t, removed)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Flashcards, 1)
	assert.Equal(t, "old2", snap.Flashcards[0].ID)
}

func TestMigrateLegacyCards_Idempotent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	seedLegacy(t, kv, Card{ID: "old1", Original: "木"}, Card{ID: "old2", Original: "林"})

	moved, err := s.MigrateLegacyCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	once, err := s.Snapshot(ctx)
	require.NoError(t, err)

	moved, err = s.MigrateLegacyCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	twice, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	require.Len(t, twice.Decks, 1)
	assert.Equal(t, DefaultDeckID, twice.Decks[0].ID)
	assert.Len(t, twice.Decks[0].Cards, 2)
	assert.Empty(t, twice.Flashcards)

	_, ok, err := kv.Get(ctx, KeyFlashcards)
	require.NoError(t, err)
	assert.False(t, ok, "legacy record should be deleted")
}

// countingKV records batch writes and fails the next failApply of them
type countingKV struct {
	*MemoryKV
	applies   int
	failApply int
	lastOps   []Op
}

func (c *countingKV) Apply(ctx context.Context, ops []Op) error {
	c.applies++
	c.lastOps = ops
	if c.failApply > 0 {
		c.failApply--
		return errors.New("disk full")
	}
	return c.MemoryKV.Apply(ctx, ops)
}

func TestMigrateLegacyCards_FailedWriteMigratesOnce(t *testing.T) {
	kv := &countingKV{MemoryKV: NewMemoryKV(), failApply: 1}
	s := NewStore(NewKVRepository(kv), WithNow(fixedNow))
	ctx := context.Background()
	seedLegacy(t, kv.MemoryKV, Card{ID: "old1", Original: "木"}, Card{ID: "old2", Original: "林"})

	_, err := s.ListDecks(ctx)
	require.Error(t, err)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Len(t, decks[0].Cards, 2)

	_, ok, err := kv.Get(ctx, KeyFlashcards)
	require.NoError(t, err)
	assert.False(t, ok, "legacy record should be deleted")

	decks, err = s.ListDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, decks[0].Cards, 2)
}

func TestKVRepository_SetIsOneBatch(t *testing.T) {
	kv := &countingKV{MemoryKV: NewMemoryKV()}
	repo := NewKVRepository(kv)

	err := repo.Set(context.Background(), State{
		Decks:          []Deck{{ID: DefaultDeckID, Name: DefaultDeckName}},
		TargetLanguage: "German",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, kv.applies)

	keys := make([]string, 0, len(kv.lastOps))
	for _, op := range kv.lastOps {
		keys = append(keys, op.Key)
	}
	assert.Equal(t, []string{KeyDecks, KeyTargetLanguage, KeyFlashcards}, keys)
	assert.Nil(t, kv.lastOps[2].Value, "legacy key should be deleted in the same batch")
}

func TestEnsureDefaultDeck(t *testing.T) {
	kv := &countingKV{MemoryKV: NewMemoryKV()}
	s := NewStore(NewKVRepository(kv), WithNow(fixedNow))
	ctx := context.Background()

	require.NoError(t, s.EnsureDefaultDeck(ctx))
	assert.Equal(t, 1, kv.applies)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decks, 1)
	assert.Equal(t, DefaultDeckID, snap.Decks[0].ID)
	assert.Equal(t, DefaultDeckName, snap.Decks[0].Name)

	require.NoError(t, s.EnsureDefaultDeck(ctx))
	assert.Equal(t, 1, kv.applies, "existing decks should not be rewritten")
}

func TestEnsureDefaultDeck_KeepsExistingDecks(t *testing.T) {
	kv := &countingKV{MemoryKV: NewMemoryKV()}
	s := NewStore(NewKVRepository(kv), WithNow(fixedNow))
	ctx := context.Background()

	deck, err := s.CreateDeck(ctx, "Kanji")
	require.NoError(t, err)
	applies := kv.applies

	require.NoError(t, s.EnsureDefaultDeck(ctx))
	assert.Equal(t, applies, kv.applies)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decks, 1)
	assert.Equal(t, deck.ID, snap.Decks[0].ID)
}

func TestListDecks_MigratesLegacyCards(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	seedLegacy(t, kv, Card{ID: "old1", Original: "木"})

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	require.Len(t, decks[0].Cards, 1)
	assert.Equal(t, "old1", decks[0].Cards[0].ID)
}

func TestCreateRenameDeleteDeck(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateDeck(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	deck, err := s.CreateDeck(ctx, "Verbs")
	require.NoError(t, err)
	assert.NotEmpty(t, deck.ID)
	assert.NotEqual(t, DefaultDeckID, deck.ID)

	other, err := s.CreateDeck(ctx, "Nouns")
	require.NoError(t, err)
	assert.NotEqual(t, deck.ID, other.ID)

	renamed, err := s.RenameDeck(ctx, deck.ID, "Godan verbs")
	require.NoError(t, err)
	assert.Equal(t, "Godan verbs", renamed.Name)

	got, err := s.GetDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Godan verbs", got.Name)

	require.NoError(t, s.DeleteDeck(ctx, deck.ID))
	_, err = s.GetDeck(ctx, deck.ID)
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.ErrorIs(t, s.DeleteDeck(ctx, deck.ID), ErrDeckNotFound)

	_, err = s.RenameDeck(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestUpdateCards(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCard(ctx, DefaultDeckID, "一", "one", "いち")
	require.NoError(t, err)

	deck, err := s.UpdateCards(ctx, DefaultDeckID, func(cards []Card) {
		cards[0].Known = true
		cards[0].ReviewCount++
	})
	require.NoError(t, err)
	assert.True(t, deck.Cards[0].Known)

	got, err := s.GetDeck(ctx, DefaultDeckID)
	require.NoError(t, err)
	assert.True(t, got.Cards[0].Known)
	assert.Equal(t, 1, got.Cards[0].ReviewCount)

	_, err = s.UpdateCards(ctx, "missing", func([]Card) {})
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestTargetLanguage(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	lang, err := s.TargetLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "English", lang)

	assert.ErrorIs(t, s.SetTargetLanguage(ctx, " "), ErrEmptyLanguage)
	require.NoError(t, s.SetTargetLanguage(ctx, "Spanish"))

	lang, err = s.TargetLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", lang)
}

func TestGetDeck_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCard(ctx, DefaultDeckID, "山", "mountain", "やま")
	require.NoError(t, err)

	deck, err := s.GetDeck(ctx, DefaultDeckID)
	require.NoError(t, err)
	deck.Cards[0].Known = true

	again, err := s.GetDeck(ctx, DefaultDeckID)
	require.NoError(t, err)
	assert.False(t, again.Cards[0].Known)
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "wordhover.db")
	ctx := context.Background()

	kv, err := OpenSQLite(path)
	require.NoError(t, err)

	s := NewStore(NewKVRepository(kv))
	card, err := s.AddCard(ctx, DefaultDeckID, "川", "river", "かわ")
	require.NoError(t, err)
	require.NoError(t, s.SetTargetLanguage(ctx, "French"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	s = NewStore(NewKVRepository(kv))
	deck, err := s.GetDeck(ctx, DefaultDeckID)
	require.NoError(t, err)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, card.ID, deck.Cards[0].ID)
	assert.Equal(t, "かわ", deck.Cards[0].Hiragana)
	assert.True(t, card.CreatedAt.Equal(deck.Cards[0].CreatedAt))

	lang, err := s.TargetLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "French", lang)
}
