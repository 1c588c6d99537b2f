// Package common defines shared constants and sentinel errors used across
// staffkeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Login outcomes. Both are reported to the client with HTTP 200.
	ErrNoRecord          = errors.New("no record existed")
	ErrPasswordIncorrect = errors.New("password incorrect")

	// Registration input errors.
	ErrPasswordTooLong = errors.New("password too long")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrForbidden    = errors.New("forbidden")

	// Chatbot proxy errors.
	ErrChatbotDisabled = errors.New("chatbot disabled")
	ErrUpstream        = errors.New("upstream error")
)
