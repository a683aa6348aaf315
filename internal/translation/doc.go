// Package translation turns selected text into a translation plus an optional
// hiragana reading using a generative-language backend (Gemini or OpenAI).
// It builds the prompt, decodes the model output with a lenient fallback and
// classifies every backend failure into a user-facing error kind.
package translation
