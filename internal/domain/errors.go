// Package domain holds the entities and sentinel errors shared by the
// use case and transport layers.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGroupNotFound signals a missing group.
	ErrGroupNotFound = errors.New("group not found")
	// ErrLinkNotFound signals a missing important link.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidInput signals a validation failure on caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials signals a failed admin login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLocked signals that admin login is temporarily locked out.
	ErrLocked = errors.New("login locked")
)

// LockedError wraps ErrLocked with the time remaining until the
// lockout expires.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrLocked.Error(), e.RetryAfter.Round(time.Second))
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// NewLocked creates a lockout error with the remaining duration.
func NewLocked(retryAfter time.Duration) error {
	return &LockedError{RetryAfter: retryAfter}
}
