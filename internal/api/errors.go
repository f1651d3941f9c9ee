package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnreachable wraps transport failures: DNS, refused connections,
	// timeouts. The request may never have reached the backend.
	ErrUnreachable = errors.New("service unreachable")

	// ErrUnauthorized matches a RejectedError with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectedError is returned when the backend answered with a non-2xx status.
type RejectedError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *RejectedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s rejected with status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s rejected with status %d", e.Method, e.Path, e.StatusCode)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsRejected reports whether err carries a backend rejection.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// parseDetail extracts a human-readable message from an error body. The
// backend uses {"detail": ...}; the mock backend uses {"error": ...}.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return text
		}
		return string(payload.Detail)
	}
	return payload.Error
}
