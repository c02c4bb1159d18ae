package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/service"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("term", "must not be empty", domain.ErrCardTermEmpty), http.StatusBadRequest},
		{"invalid filter", fmt.Errorf("%w: %q", domain.ErrInvalidFilter, "later"), http.StatusBadRequest},
		{"unknown format", store.ErrUnknownFormat, http.StatusBadRequest},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"empty text generation", service.NewGenerationError(generation.ErrEmptyText), http.StatusBadRequest},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"wrapped card not found", fmt.Errorf("update: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"session not found", review.ErrSessionNotFound, http.StatusNotFound},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"duplicate card", store.ErrCardIDExists, http.StatusConflict},
		{"busy", service.ErrBusy, http.StatusConflict},
		{"session closed", review.ErrSessionClosed, http.StatusConflict},
		{"no current card", review.ErrNoCurrentCard, http.StatusConflict},
		{"no cards extracted", service.NewGenerationError(generation.ErrNoCardsExtracted), http.StatusUnprocessableEntity},
		{"content blocked", service.NewGenerationError(generation.ErrContentBlocked), http.StatusUnprocessableEntity},
		{"transient", service.NewGenerationError(generation.ErrTransientFailure), http.StatusServiceUnavailable},
		{"invalid config", service.NewGenerationError(generation.ErrInvalidConfig), http.StatusServiceUnavailable},
		{"other extraction failure", service.NewGenerationError(generation.ErrInvalidResponse), http.StatusBadGateway},
		{"queue full", fmt.Errorf("enqueue generation: %w", task.ErrQueueFull), http.StatusServiceUnavailable},
		{"async disabled", service.ErrAsyncDisabled, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("generation errors use their user message", func(t *testing.T) {
		err := service.NewGenerationError(fmt.Errorf("%w: key AIzaSyD-secret", generation.ErrInvalidConfig))
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, generation.UserMessage(generation.ErrInvalidConfig), msg)
		assert.NotContains(t, msg, "AIza")
	})

	t.Run("validation errors name the field", func(t *testing.T) {
		err := domain.NewValidationError("title", "must not be empty", domain.ErrDeckTitleEmpty)
		assert.Equal(t, "Invalid title: must not be empty", GetSafeErrorMessage(err))
	})

	t.Run("internal errors stay generic", func(t *testing.T) {
		err := errors.New("pq: connection to 10.0.0.5 refused")
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, "Deck not found", GetSafeErrorMessage(store.ErrDeckNotFound))
		assert.Equal(t, "Card not found", GetSafeErrorMessage(store.ErrCardNotFound))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Run("top level field", func(t *testing.T) {
		err := shared.ValidateRequest(GenerateRequest{})
		assert.Equal(t, "Invalid text: required field", SanitizeValidationError(err))
	})

	t.Run("nested card field", func(t *testing.T) {
		err := shared.ValidateRequest(CreateDeckRequest{
			Cards: []CardInput{{Term: "a", Definition: "b"}, {Term: "c"}},
		})
		assert.Equal(t, "Invalid cards[1].definition: required field", SanitizeValidationError(err))
	})

	t.Run("oneof", func(t *testing.T) {
		err := shared.ValidateRequest(SetFilterRequest{Filter: "later"})
		assert.Equal(t, "Invalid filter: invalid value", SanitizeValidationError(err))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("x")))
	})
}
