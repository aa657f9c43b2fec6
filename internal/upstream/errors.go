package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the status codes the dashboard reacts to. Handlers
// match these with errors.Is; ErrUnauthorized in particular triggers the
// global session teardown.
var (
	ErrUnauthorized       = errors.New("upstream: unauthorized")
	ErrForbidden          = errors.New("upstream: forbidden")
	ErrNotFound           = errors.New("upstream: not found")
	ErrRateLimited        = errors.New("upstream: rate limited")
	ErrInvalidCredentials = errors.New("upstream: invalid credentials")
)

// APIError is a non-2xx response from the remote API, carrying any detail
// message the server included in its body.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s: %s: %s", e.Endpoint, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("upstream %s: %s", e.Endpoint, http.StatusText(e.StatusCode))
}

// Is maps status codes onto the package sentinels so call sites can use
// errors.Is without inspecting codes themselves.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    extractErrorMessage(body),
	}
}

// extractErrorMessage pulls a human-readable detail out of an error body.
// JSON bodies with error/message fields win; HTML error pages are ignored;
// anything else is collapsed to a single capped line.
func extractErrorMessage(body []byte) string {
	var payload struct {
		Error   string   `json:"error"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if len(payload.Errors) > 0 {
			if first := strings.TrimSpace(payload.Errors[0]); first != "" {
				return first
			}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return ""
	}
	if strings.HasPrefix(msg, "<!DOCTYPE html") || strings.HasPrefix(msg, "<html") {
		return ""
	}
	msg = strings.Join(strings.Fields(msg), " ")
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "…"
	}
	return msg
}
