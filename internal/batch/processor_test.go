package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []WordEntry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "words with translations",
			fileContent: `猫 = cat
犬 = dog
hello = hola`,
			want: []WordEntry{
				{Original: "猫", Translation: "cat"},
				{Original: "犬", Translation: "dog"},
				{Original: "hello", Translation: "hola"},
			},
		},
		{
			name: "mixed format",
			fileContent: `猫
犬 = dog
山`,
			want: []WordEntry{
				{Original: "猫", NeedsTranslation: true},
				{Original: "犬", Translation: "dog"},
				{Original: "山", NeedsTranslation: true},
			},
		},
		{
			name: "with reading",
			fileContent: `猫 = cat | ねこ
食べる = to eat|たべる`,
			want: []WordEntry{
				{Original: "猫", Translation: "cat", Hiragana: "ねこ"},
				{Original: "食べる", Translation: "to eat", Hiragana: "たべる"},
			},
		},
		{
			name: "empty lines comments and whitespace",
			fileContent: `
# greetings
猫

犬 = dog  

  山  
`,
			want: []WordEntry{
				{Original: "猫", NeedsTranslation: true},
				{Original: "犬", Translation: "dog"},
				{Original: "山", NeedsTranslation: true},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "猫\r\n犬 = dog\r\n山",
			want: []WordEntry{
				{Original: "猫", NeedsTranslation: true},
				{Original: "犬", Translation: "dog"},
				{Original: "山", NeedsTranslation: true},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `test = word = with = equals`,
			want: []WordEntry{
				{Original: "test", Translation: "word = with = equals"},
			},
		},
		{
			name: "missing original is skipped",
			fileContent: `= apple
猫 =`,
			want: []WordEntry{
				{Original: "猫", NeedsTranslation: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.txt")
			err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644)
			if err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestParse_LineTooLong(t *testing.T) {
	_, err := Parse(strings.NewReader(strings.Repeat("x", 128*1024)))
	if err == nil {
		t.Error("Expected error for oversized line")
	}
}
