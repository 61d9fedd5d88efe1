package graph

import (
	"errors"
	"fmt"
	"net/http"

	"lookalike-audience-service/internal/audiences/core/ports"
)

// APIError is the "error" object of a Graph API error response.
type APIError struct {
	StatusCode int `json:"-"`

	Message     string `json:"message"`
	Type        string `json:"type"`
	Code        int    `json:"code"`
	Subcode     int    `json:"error_subcode"`
	UserTitle   string `json:"error_user_title"`
	UserMessage string `json:"error_user_msg"`
	FBTraceID   string `json:"fbtrace_id"`
}

var _ ports.APIError = (*APIError)(nil)

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("graph api: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("graph api: %s (code %d): %s", e.Type, e.Code, e.Message)
}

// APIErrorMessage joins the developer message with the user-facing detail,
// which is where the API explains conflicts such as duplicate names.
func (e *APIError) APIErrorMessage() string {
	if e.UserMessage == "" || e.UserMessage == e.Message {
		return e.Message
	}
	return e.Message + ": " + e.UserMessage
}

// Temporary reports server-side failures worth counting against the breaker.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func newStatusError(status int) *APIError {
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

// breakerSuccess decides which errors leave the circuit breaker untouched.
// Client-side API errors (bad params, duplicate names) say nothing about
// upstream health.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Temporary()
	}
	return false
}
