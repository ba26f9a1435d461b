package wbapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError is a failed call to a Wildberries API. Status is 500 when no
// HTTP response was received.
type UpstreamError struct {
	Status   int
	Body     []byte
	Endpoint string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wb api %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("wb api %s: status %d: %s", e.Endpoint, e.Status, truncate(e.Body, 256))
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// UpstreamMessage extracts a human readable message from the response body.
func (e *UpstreamError) UpstreamMessage() string {
	if len(e.Body) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(e.Body, &m); err != nil {
		return ""
	}
	return Record(m).String("", "message", "detail", "error", "title")
}

// APIError is the user-facing shape of any failure.
type APIError struct {
	Status   int
	Message  string
	Endpoint string
}

func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%d %s (%s)", e.Status, e.Message, e.Endpoint)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// NewAPIError builds an error that Normalize passes through unchanged.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

var statusMessages = map[int]string{
	http.StatusUnauthorized:        "unauthorized: token is malformed",
	http.StatusTooManyRequests:     "Too many requests. Please try again later",
	http.StatusBadRequest:          "Invalid request parameters",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Resource not found",
	http.StatusInternalServerError: "Wildberries API error",
}

// Normalize maps err to an APIError. Upstream failures get a fixed message
// per status; unknown statuses carry the upstream message. Anything else is
// an internal error.
func Normalize(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		status := up.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg, ok := statusMessages[status]
		if !ok {
			msg = up.UpstreamMessage()
		}
		if msg == "" {
			msg = "Unknown error"
		}
		return &APIError{Status: status, Message: msg, Endpoint: up.Endpoint}
	}
	return &APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
