package apierror

import (
	"errors"
	"fmt"
	"strings"
)

// Verification error codes returned by the email verification endpoints.
const (
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeAlreadyActivated = "ALREADY_ACTIVATED"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeUnknown          = "UNKNOWN_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`

	// ErrorCode and Email are only set by the verification flow.
	ErrorCode string `json:"errorCode,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	code := e.Code
	if e.ErrorCode != "" {
		code = e.ErrorCode
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// MessageOr returns the server supplied message carried by err, or fallback
// when err carries none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}

	return fallback
}

// StatusOf reports the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}

	return 0
}
