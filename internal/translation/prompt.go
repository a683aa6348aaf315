package translation

import "fmt"

// BuildPrompt creates the instruction sent to the model for a selection
func BuildPrompt(text, targetLanguage string) string {
	return fmt.Sprintf(`Analyze the following text: %q.
Translate it to %s.
You MUST respond with ONLY a valid, single-line JSON object with two keys: "translation" and "hiragana".

- "translation": This key's value must be the translated text.
- "hiragana": If the original text contains Japanese Kanji, this key's value must be the complete Hiragana reading. If there is no Kanji, the value must be an empty string.

Correct Example 1:
Original Text: "日本語"
Response: {"translation": "Japanese", "hiragana": "にほんご"}

Correct Example 2:
Original Text: "こんにちは"
Response: {"translation": "Hello", "hiragana": ""}

Do not add any other text, explanations, or markdown formatting outside of the JSON object.`, text, targetLanguage)
}
