package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
)

// GenerationService turns pasted text into decks.
// *service.GenerationService implements it.
type GenerationService interface {
	Generate(ctx context.Context, text, title string) (domain.Deck, error)
	Submit(ctx context.Context, text, title string) (task.GenerationResult, error)
	Task(id uuid.UUID) (task.GenerationResult, error)
}

// GenerationHandler handles card generation requests
type GenerationHandler struct {
	generator GenerationService
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generator GenerationService, log *slog.Logger) *GenerationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GenerationHandler{
		generator: generator,
		logger:    log.With(slog.String("component", "generation_handler")),
	}
}

// CreateGeneration handles POST /api/generations.
//
// By default the extraction runs in the background and the response is
// 202 Accepted with the task to poll. With ?wait=true the request blocks
// until the deck exists and returns it with 201 Created.
func (h *GenerationHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if wait {
		deck, err := h.generator.Generate(r.Context(), req.Text, req.Title)
		if err != nil && !store.IsPersistenceError(err) {
			HandleAPIError(w, r, err, "")
			return
		}
		log.Info("deck generated",
			slog.String("deck_id", deck.ID),
			slog.Int("card_count", len(deck.Cards)))
		respondPersisted(w, r, http.StatusCreated, store.ToRecord(deck), err)
		return
	}

	result, err := h.generator.Submit(r.Context(), req.Text, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("generation task accepted", slog.String("task_id", result.TaskID.String()))
	w.Header().Set("Location", "/api/generations/"+result.TaskID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, result)
}

// GetGeneration handles GET /api/generations/{taskID}
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "taskID")
	if !ok {
		return
	}

	id, err := uuid.Parse(params[0])
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("taskID", "has invalid format", err), "")
		return
	}

	result, err := h.generator.Task(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
