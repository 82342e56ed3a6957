package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed: %d - %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Message returns the "message" field of a JSON error body, or the raw body.
func (e *APIError) Message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return e.Body
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsConflict reports whether err means the resource already exists. The bank
// answers duplicate registrations with 400 and duplicate topics with 409.
func IsConflict(err error) bool {
	switch StatusCode(err) {
	case http.StatusConflict, http.StatusBadRequest:
		return true
	}
	return false
}
