package cli

import (
	"codeberg.org/snonux/wordhover/internal/flashcard"
	"codeberg.org/snonux/wordhover/internal/server"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Verbose   bool
	StorePath string

	// Backend flags
	Provider string
	Model    string

	// Card flags
	DeckID   string
	Save     bool
	Language string

	// Export flags
	AnkiCSV  bool
	Output   string
	DeckName string

	// Server flags
	Port int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider: ProviderGemini,
		DeckID:   flashcard.DefaultDeckID,
		Port:     server.DefaultPort,
	}
}
