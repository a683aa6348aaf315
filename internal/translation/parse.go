package translation

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// NoTranslation is shown when the model returned no text at all
const NoTranslation = "No translation available"

var (
	fenceStart = regexp.MustCompile("^```(?:json|JSON)?\\s*")
	fenceEnd   = regexp.MustCompile("\\s*```$")
)

// Result is a successful translation
type Result struct {
	Translation string `json:"translation"`
	Hiragana    string `json:"hiragana"`
}

type modelPayload struct {
	Translation *string `json:"translation"`
	Hiragana    *string `json:"hiragana"`
}

// ParseResponse decodes the model output. It first tries the strict
// {"translation","hiragana"} object and otherwise returns the whole text as
// the translation with an empty reading. It never fails.
func ParseResponse(raw string) Result {
	text := strings.TrimSpace(raw)

	if res, err := decodeStrict(stripFence(text)); err == nil {
		return res
	}

	if text == "" {
		return Result{Translation: NoTranslation}
	}
	return Result{Translation: text}
}

func stripFence(s string) string {
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func decodeStrict(s string) (Result, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()

	var payload modelPayload
	if err := dec.Decode(&payload); err != nil {
		return Result{}, err
	}

	// Trailing prose after the object is not a strict response.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Result{}, errors.New("trailing data after JSON object")
	}

	if payload.Translation == nil {
		return Result{}, errors.New("missing translation field")
	}

	res := Result{Translation: *payload.Translation}
	if payload.Hiragana != nil {
		res.Hiragana = *payload.Hiragana
	}
	return res, nil
}
