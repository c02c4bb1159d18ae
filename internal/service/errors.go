package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/smartflash/internal/generation"
)

// Common service errors. The API layer maps these to status codes.
var (
	// ErrBusy is returned while another extraction is in flight.
	// API layer should map this to HTTP 409 Conflict.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrTaskNotFound is returned when a generation task id is unknown or expired.
	ErrTaskNotFound = errors.New("generation task not found")

	// ErrAsyncDisabled is returned by Submit when the service has no task queue.
	ErrAsyncDisabled = errors.New("background generation is not configured")
)

// GenerationError wraps a failed generation with the one sentence that is
// safe to show to the user.
type GenerationError struct {
	// Message is the user-facing description of the failure
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GenerationError.
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Err)
	}
	return "generation failed: " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err with its user-facing message. ErrBusy and nil
// are returned unchanged.
func NewGenerationError(err error) error {
	if err == nil || errors.Is(err, ErrBusy) {
		return err
	}
	return &GenerationError{
		Message: generation.UserMessage(err),
		Err:     err,
	}
}
