package review

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrSessionClosed is returned when navigating a session whose deck was deleted.
	// The session can still be read.
	ErrSessionClosed = errors.New("review session is closed")

	// ErrNoCurrentCard is returned by operations that need a current card
	// when the filtered view is empty.
	ErrNoCurrentCard = errors.New("no current card")
)
