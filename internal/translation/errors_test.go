package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	var syntaxErr *json.SyntaxError
	if err := json.Unmarshal([]byte("not json"), &struct{}{}); !errors.As(err, &syntaxErr) {
		t.Fatalf("expected a json syntax error, got %v", err)
	}

	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"rate limited", &StatusError{Code: 429}, KindRateLimited},
		{"unauthorized", &StatusError{Code: 401}, KindAuth},
		{"forbidden", &StatusError{Code: 403}, KindAuth},
		{"not found", &StatusError{Code: 404}, KindNotFound},
		{"server error", &StatusError{Code: 500}, KindUnknown},
		{"wrapped status", fmt.Errorf("call: %w", &StatusError{Code: 429}), KindRateLimited},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"net timeout", &url.Error{Op: "Post", URL: "http://x", Err: timeoutErr{}}, KindTimeout},
		{"connection refused", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}, KindNetwork},
		{"canceled", context.Canceled, KindNetwork},
		{"decode", fmt.Errorf("decode: %w", syntaxErr), KindFormat},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.kind {
				t.Errorf("Classify(%v).Kind = %v, want %v", tt.err, got.Kind, tt.kind)
			}
			if got.Message == "" || got.Title == "" {
				t.Errorf("expected a human readable title and message, got %+v", got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error does not wrap the original error")
			}
		})
	}
}

func TestClassify_AlreadyClassified(t *testing.T) {
	orig := NewValidationError("Text Too Long", "too long")
	if got := Classify(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("expected the same *Error back, got %+v", got)
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestKindCodesAreDistinct(t *testing.T) {
	kinds := []Kind{KindUnknown, KindValidation, KindNetwork, KindAuth, KindRateLimited, KindNotFound, KindFormat, KindTimeout}
	seen := make(map[string]Kind)
	for _, k := range kinds {
		if other, ok := seen[k.Code()]; ok {
			t.Errorf("kinds %d and %d share code %s", k, other, k.Code())
		}
		seen[k.Code()] = k
	}
}

func TestError_Retryable(t *testing.T) {
	if (&Error{Kind: KindAuth}).Retryable() {
		t.Error("auth errors are not retryable")
	}
	if !(&Error{Kind: KindRateLimited}).Retryable() {
		t.Error("rate limited errors are retryable later")
	}
}
