package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/platform/logger"
)

// getPathParam extracts a required path parameter from the chi route context.
func getPathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", domain.NewValidationError(name, "is required", nil)
	}
	return value, nil
}

// handlePathParams extracts the named path parameters in order. It writes an
// error response and returns false if any is missing.
func handlePathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, 0, len(names))
	for _, name := range names {
		value, err := getPathParam(r, name)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), nil).Warn("missing path parameter",
				slog.String("param_name", name))
			HandleAPIError(w, r, err, "")
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

// decodeAndValidate decodes the JSON body into v and validates it. It writes
// an error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
