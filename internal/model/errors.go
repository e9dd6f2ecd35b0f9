package model

import "errors"

var (
	// Session related errors
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrDecrypt        = errors.New("decryption failed")

	// Storage related errors
	ErrKeyNotFound = errors.New("key not found")

	// Listing related errors
	ErrInvalidDraft        = errors.New("listing draft is invalid")
	ErrSubmissionCancelled = errors.New("submission cancelled")
	ErrSubmissionInFlight  = errors.New("submission already in progress")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
