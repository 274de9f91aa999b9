package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyToken is returned when login succeeds without a token in the body
var ErrEmptyToken = errors.New("backend returned an empty token")

// Error is a non-2xx response from the backend
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Message extracts the user-facing text of the response body. Plain text
// bodies are returned as is; JSON strings are unquoted and JSON objects
// yield their "message" field.
func (e *Error) Message() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}
	switch body[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(body), &s); err == nil {
			return strings.TrimSpace(s)
		}
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(body), &obj); err == nil {
			if obj.Message != "" {
				return obj.Message
			}
			return obj.Error
		}
	}
	return body
}

// StatusCode returns the HTTP status of an API error, or 0 for other errors
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the credential
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// Message returns the text to show for a failed call: the backend's body
// when it sent one, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
