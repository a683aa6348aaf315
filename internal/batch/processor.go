package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WordEntry is one line of an import file
type WordEntry struct {
	Original    string
	Translation string
	Hiragana    string
	// NeedsTranslation is set when the line carries no translation
	NeedsTranslation bool
}

// ReadBatchFile reads words from a file and returns WordEntry slice
// Supports formats:
// - Text only: "猫" (will be translated)
// - With translation: "猫 = cat"
// - With translation and reading: "猫 = cat | ねこ"
// Blank lines, lines starting with '#', and lines with an empty
// original ("= cat") are skipped.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// Parse reads entries from r in the batch file format
func Parse(r io.Reader) ([]WordEntry, error) {
	var entries []WordEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		original, rest, found := strings.Cut(line, "=")
		original = strings.TrimSpace(original)
		if original == "" {
			continue
		}

		if !found {
			entries = append(entries, WordEntry{
				Original:         original,
				NeedsTranslation: true,
			})
			continue
		}

		translation, hiragana, _ := strings.Cut(rest, "|")
		translation = strings.TrimSpace(translation)
		entries = append(entries, WordEntry{
			Original:         original,
			Translation:      translation,
			Hiragana:         strings.TrimSpace(hiragana),
			NeedsTranslation: translation == "",
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
