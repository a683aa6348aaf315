package translation

import "testing"

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{
			name: "strict object",
			raw:  `{"translation": "Japanese", "hiragana": "にほんご"}`,
			want: Result{Translation: "Japanese", Hiragana: "にほんご"},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"translation\": \"Hello\", \"hiragana\": \"\"}\n```",
			want: Result{Translation: "Hello", Hiragana: ""},
		},
		{
			name: "bare fence",
			raw:  "```{\"translation\": \"cat\", \"hiragana\": \"ねこ\"}```",
			want: Result{Translation: "cat", Hiragana: "ねこ"},
		},
		{
			name: "missing hiragana",
			raw:  `{"translation": "dog"}`,
			want: Result{Translation: "dog"},
		},
		{
			name: "plain text falls back",
			raw:  "The translation is: water",
			want: Result{Translation: "The translation is: water"},
		},
		{
			name: "extra field falls back to raw text",
			raw:  `{"translation": "dog", "hiragana": "", "note": "x"}`,
			want: Result{Translation: `{"translation": "dog", "hiragana": "", "note": "x"}`},
		},
		{
			name: "missing translation falls back",
			raw:  `{"hiragana": "いぬ"}`,
			want: Result{Translation: `{"hiragana": "いぬ"}`},
		},
		{
			name: "trailing prose falls back",
			raw:  `{"translation": "dog", "hiragana": ""} hope this helps`,
			want: Result{Translation: `{"translation": "dog", "hiragana": ""} hope this helps`},
		},
		{
			name: "empty output",
			raw:  "   ",
			want: Result{Translation: NoTranslation},
		},
		{
			name: "wrong types fall back",
			raw:  `{"translation": 42, "hiragana": ""}`,
			want: Result{Translation: `{"translation": 42, "hiragana": ""}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResponse(tt.raw)
			if got != tt.want {
				t.Errorf("ParseResponse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
