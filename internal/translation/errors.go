package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Kind is the category of a translation failure
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNetwork
	KindAuth
	KindRateLimited
	KindNotFound
	KindFormat
	KindTimeout
)

// Code returns the short machine readable code for the kind
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNetwork:
		return "NETWORK"
	case KindAuth:
		return "AUTH"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindFormat:
		return "FORMAT"
	case KindTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) String() string {
	return k.Code()
}

// Error is the classified failure returned by Translate. Title is a short
// heading for the tooltip, Message a human readable description.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Status  int // HTTP status if the backend answered, 0 otherwise
	Err     error
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the short code of the error kind
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Retryable reports whether re-selecting the text later may succeed
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimited, KindTimeout, KindUnknown:
		return true
	default:
		return false
	}
}

// StatusError is returned by backends when the API answered with a non-2xx status
type StatusError struct {
	Backend string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error: %d %s - %s", e.Backend, e.Code, http.StatusText(e.Code), e.Body)
}

// NewValidationError creates a validation error that never reaches the network
func NewValidationError(title, message string) *Error {
	return &Error{Kind: KindValidation, Title: title, Message: message}
}

// NewTimeoutError creates the error used when a request exceeds its ceiling
func NewTimeoutError(err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Title:   "Request Timed Out",
		Message: "The translation service did not answer in time. Select the text again to retry.",
		Err:     err,
	}
}

// Classify maps any backend error onto a classified *Error
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr.Code, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{
			Kind:    KindFormat,
			Title:   "API Response Format Error",
			Message: "The API returned unexpected response format.",
			Err:     err,
		}
	}

	var urlErr *url.Error
	if errors.Is(err, context.Canceled) || errors.As(err, &urlErr) || netErr != nil {
		return &Error{
			Kind:    KindNetwork,
			Title:   "Network Connection Failed",
			Message: "Check internet connection or firewall settings.",
			Err:     err,
		}
	}

	return &Error{
		Kind:    KindUnknown,
		Title:   "Translation failed",
		Message: err.Error(),
		Err:     err,
	}
}

func classifyStatus(status int, err error) *Error {
	e := &Error{Status: status, Err: err}

	switch status {
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.Title = "API Rate Limit Exceeded"
		e.Message = "The API has reached its quota or rate limit. Try again later."
	case http.StatusUnauthorized:
		e.Kind = KindAuth
		e.Title = "API Authentication Failed"
		e.Message = "Invalid API key or authentication issue."
	case http.StatusForbidden:
		e.Kind = KindAuth
		e.Title = "API Access Forbidden"
		e.Message = "API key may not have permission for this service."
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Title = "API Model Not Found"
		e.Message = "The model may have been changed or deprecated."
	default:
		e.Kind = KindUnknown
		e.Title = "Translation failed"
		e.Message = fmt.Sprintf("API error: %d %s", status, http.StatusText(status))
	}

	return e
}
