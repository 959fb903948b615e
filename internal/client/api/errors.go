package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized marks a 401 response. When the request carried a
	// credential, the session has already been invalidated by the time the
	// caller sees this error.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable marks transport failures: connection refused, timeouts,
	// cancelled contexts.
	ErrUnavailable = errors.New("server unavailable")
	// ErrMalformedResponse marks a 2xx response the client could not decode.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error describes a failed gateway call.
type Error struct {
	Method string
	Path   string
	// Status is 0 when no response was received.
	Status int
	// Message is the human-readable text sent by the server, if any.
	Message string
	Body    []byte
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOf returns the server-supplied message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody covers the two shapes the backend uses: {"error": "..."} from
// the route handlers and {"msg": "..."} from the JWT middleware.
type errorBody struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Msg
}
