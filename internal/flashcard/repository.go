package flashcard

import (
	"context"
	"encoding/json"
	"fmt"
)

// Repository loads and saves the whole store record
type Repository interface {
	Get(ctx context.Context) (State, error)
	Set(ctx context.Context, state State) error
}

// KVRepository maps State onto the keys of a KV store
type KVRepository struct {
	kv KV
}

// NewKVRepository creates a repository backed by kv
func NewKVRepository(kv KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) Get(ctx context.Context) (State, error) {
	var state State

	if err := r.load(ctx, KeyDecks, &state.Decks); err != nil {
		return State{}, err
	}
	if err := r.load(ctx, KeyTargetLanguage, &state.TargetLanguage); err != nil {
		return State{}, err
	}
	if err := r.load(ctx, KeyFlashcards, &state.Flashcards); err != nil {
		return State{}, err
	}

	return state, nil
}

// Set writes decks and target language in one batch. The legacy key is
// removed in the same batch once the state no longer carries legacy cards.
func (r *KVRepository) Set(ctx context.Context, state State) error {
	decks := state.Decks
	if decks == nil {
		decks = []Deck{}
	}

	ops := make([]Op, 0, 3)
	op, err := encodeOp(KeyDecks, decks)
	if err != nil {
		return err
	}
	ops = append(ops, op)

	if state.TargetLanguage != "" {
		op, err := encodeOp(KeyTargetLanguage, state.TargetLanguage)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	if len(state.Flashcards) == 0 {
		ops = append(ops, Op{Key: KeyFlashcards})
	} else {
		op, err := encodeOp(KeyFlashcards, state.Flashcards)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	return r.kv.Apply(ctx, ops)
}

func (r *KVRepository) load(ctx context.Context, key string, v any) error {
	data, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func encodeOp(key string, v any) (Op, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Op{}, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return Op{Key: key, Value: data}, nil
}
