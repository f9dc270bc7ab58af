package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an error status from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "remote service rejected the API key (401)"
	case http.StatusTooManyRequests:
		return "remote service rate limit reached (429), try again shortly"
	}
	return fmt.Sprintf("remote service status code: %d, message: %s", e.StatusCode, e.Message)
}

// newAPIError takes the message from the service's error envelope, falling
// back to the raw body and then the status text.
func newAPIError(status int, raw []byte) *APIError {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
