package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// APIError is a non-2xx response from the API. Messages holds one or more
// human-readable messages taken from the body's error.message field, in
// server order.
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Is lets callers match API errors against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrUnavailable:
		return e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable ||
			e.Status == http.StatusGatewayTimeout
	}
	return false
}

// errorEnvelope mirrors {"error": {"message": "..." | ["...", ...]}}.
type errorEnvelope struct {
	Error struct {
		Message json.RawMessage `json:"message"`
	} `json:"error"`
}

// newAPIError normalizes an error body into an APIError. A single message is
// wrapped into a one-element slice; a body that carries no message falls back
// to the status text.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error.Message) > 0 {
		var list []string
		if err := json.Unmarshal(env.Error.Message, &list); err == nil && len(list) > 0 {
			e.Messages = list
			return e
		}
		var single string
		if err := json.Unmarshal(env.Error.Message, &single); err == nil && single != "" {
			e.Messages = []string{single}
			return e
		}
	}

	text := http.StatusText(status)
	if text == "" {
		text = "request failed"
	}
	e.Messages = []string{text}
	return e
}

// Messages returns the human-readable messages carried by err: the API
// messages for an APIError, otherwise the error text itself.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return append([]string(nil), apiErr.Messages...)
	}
	return []string{err.Error()}
}
