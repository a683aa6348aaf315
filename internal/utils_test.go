package internal

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateCardIDAt(t *testing.T) {
	now := time.UnixMilli(1718000000123)

	id := GenerateCardIDAt(now, "日本語")
	if !regexp.MustCompile(`^1718000000123_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("unexpected card ID format: %s", id)
	}

	if other := GenerateCardIDAt(now, "こんにちは"); other == id {
		t.Errorf("expected different IDs for different text, both were %s", id)
	}

	if again := GenerateCardIDAt(now, "日本語"); again != id {
		t.Errorf("expected stable ID, got %s and %s", id, again)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deck 1", "Deck_1"},
		{"japanese-n5_words", "japanese-n5_words"},
		{"a/b\\c", "a_b_c"},
		{"日本", "__"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
