package domain

import "errors"

var (
	// ErrNotFound is returned when an operation references a conversation
	// id that does not resolve to a known conversation.
	ErrNotFound = errors.New("conversation not found")

	// ErrNoSession is returned by mutations that require a signed-in user.
	ErrNoSession = errors.New("no active session")

	// ErrEmptyMessage is returned when a message has neither text nor image.
	ErrEmptyMessage = errors.New("message has no content")

	// ErrInvalidCredentials and ErrEmailTaken are the recoverable auth
	// failures; the session provider surfaces them as notifications.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
)
