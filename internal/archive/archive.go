package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/wordhover/internal/flashcard"
)

// Snapshotter returns a copy of the whole flashcard state
type Snapshotter interface {
	Snapshot(ctx context.Context) (flashcard.State, error)
}

// ArchiveStore writes a timestamped JSON snapshot of the store into
// dir/archive and returns the path of the written file
func ArchiveStore(ctx context.Context, store Snapshotter, dir string) (string, error) {
	return archiveAt(ctx, store, dir, time.Now())
}

func archiveAt(ctx context.Context, store Snapshotter, dir string, now time.Time) (string, error) {
	state, err := store.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to snapshot store: %w", err)
	}

	archiveDir := filepath.Join(dir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("store-%s.json", now.Format("20060102-150405")))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(archiveDir,
			fmt.Sprintf("store-%s.json", now.Format("20060102-150405.000000")))
	}

	if err := os.WriteFile(archivePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	return archivePath, nil
}
