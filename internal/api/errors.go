package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/redact"
	"github.com/phrazzld/smartflash/internal/service"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// handlers never decide on a status from error text.
func MapErrorToStatusCode(err error) int {
	var genErr *service.GenerationError

	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, generation.ErrEmptyText),
		errors.Is(err, store.ErrUnknownFormat),
		errors.Is(err, store.ErrMalformedData),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrBusy),
		errors.Is(err, review.ErrSessionClosed),
		errors.Is(err, review.ErrNoCurrentCard):
		return http.StatusConflict

	// Generation failures
	case errors.As(err, &genErr):
		switch {
		case errors.Is(err, generation.ErrNoCardsExtracted),
			errors.Is(err, generation.ErrContentBlocked):
			return http.StatusUnprocessableEntity
		case errors.Is(err, generation.ErrTransientFailure),
			errors.Is(err, generation.ErrInvalidConfig):
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed),
		errors.Is(err, service.ErrAsyncDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that does not
// leak internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		return genErr.Message
	}

	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		if valErr.Field != "" {
			return fmt.Sprintf("Invalid %s: %s", valErr.Field, valErr.Message)
		}
		return "Invalid request"

	case errors.Is(err, domain.ErrInvalidFilter):
		return "Unknown filter; use \"all\" or \"undone\""
	case errors.Is(err, generation.ErrEmptyText):
		return generation.UserMessage(err)
	case errors.Is(err, store.ErrUnknownFormat):
		return "Unknown format; use \"json\" or \"yaml\""
	case errors.Is(err, store.ErrMalformedData):
		return "Import data is not a deck collection"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, review.ErrSessionNotFound):
		return "Review session not found"
	case errors.Is(err, service.ErrTaskNotFound):
		return "Generation task not found"

	case errors.Is(err, store.ErrCardIDExists):
		return "A card with this id already exists in the deck"
	case errors.Is(err, service.ErrBusy):
		return "A generation is already in progress"
	case errors.Is(err, review.ErrSessionClosed):
		return "The deck for this session was deleted"
	case errors.Is(err, review.ErrNoCurrentCard):
		return "There is no card to show"

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return "The generation queue is not accepting work; try again later"
	case errors.Is(err, service.ErrAsyncDisabled):
		return "Background generation is not enabled"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field. Other errors get a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := fe.Namespace()
	// drop the struct name prefix, keep nested json paths such as cards[0].term
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "notblank":
		return "must not be blank"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A non-empty message
// overrides the safe default for the error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// respondPersisted writes a successful response for a change that may not
// have been saved. A persistence error keeps the success status and adds a
// warning header; any other error is handled normally.
func respondPersisted(w http.ResponseWriter, r *http.Request, status int, data interface{}, err error) {
	if err != nil && !store.IsPersistenceError(err) {
		HandleAPIError(w, r, err, "")
		return
	}
	if err != nil {
		logger.FromContextOrDefault(r.Context(), nil).Warn("change not saved",
			"path", r.URL.Path,
			"error", redact.Error(err))
		w.Header().Set(shared.WarningHeader, "change applied but not saved")
	}
	if data == nil {
		w.WriteHeader(status)
		return
	}
	shared.RespondWithJSON(w, r, status, data)
}
