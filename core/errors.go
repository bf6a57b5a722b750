package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is the structured error payload returned by the backend on any
// non-2xx response, or a transport failure. The server wraps its messages
// as {"error": <payload>}; the payload is kept opaque and only decoded for
// display and for the token-expiry check.
type APIError struct {
	StatusCode int
	Payload    json.RawMessage
	Err        error // transport error; nil when the server answered
}

func NewAPIError(code int, payload []byte) *APIError {
	return &APIError{StatusCode: code, Payload: payload}
}

func NewTransportError(err error) *APIError {
	return &APIError{Err: err}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", http.StatusText(e.StatusCode), e.Message())
}

// Message returns the text for display: the bare string when the payload
// is a JSON string, the raw JSON otherwise, and the transport error's text
// when the server never answered.
func (e *APIError) Message() string {
	if e.Payload == nil && e.Err != nil {
		return e.Err.Error()
	}
	var s string
	if err := json.Unmarshal(e.Payload, &s); err == nil {
		return s
	}
	return string(e.Payload)
}

// IsTokenExpired reports whether this error is an auth failure caused by an
// expired access token.
func (e *APIError) IsTokenExpired() bool {
	return e.StatusCode == http.StatusUnauthorized && strings.Contains(e.Message(), "Token expired")
}
