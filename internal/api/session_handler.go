package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
)

// SessionManager owns the open review sessions.
// *review.Manager implements it.
type SessionManager interface {
	Open(ctx context.Context, deckID string, filter domain.Filter, shuffle bool) (*review.Session, error)
	Get(id string) (*review.Session, error)
	Close(id string) error
	ToggleCurrentDone(ctx context.Context, id string) (domain.Card, error)
}

// SessionHandler handles review session requests
type SessionHandler struct {
	sessions SessionManager
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions SessionManager, log *slog.Logger) *SessionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// OpenSession handles POST /api/sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	filter, err := domain.ParseFilter(req.Filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.sessions.Open(r.Context(), req.DeckID, filter, req.Shuffle)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/api/sessions/"+session.ID())
	shared.RespondWithJSON(w, r, http.StatusCreated, viewToResponse(session.View()))
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, viewToResponse(session.View()))
}

// Next handles POST /api/sessions/{sessionID}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*review.Session).Next)
}

// Prev handles POST /api/sessions/{sessionID}/prev
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*review.Session).Prev)
}

// Flip handles POST /api/sessions/{sessionID}/flip
func (h *SessionHandler) Flip(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*review.Session).Flip)
}

// Restart handles POST /api/sessions/{sessionID}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*review.Session).Restart)
}

// MarkDone handles POST /api/sessions/{sessionID}/done, toggling the done
// flag of the current card.
func (h *SessionHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "sessionID")
	if !ok {
		return
	}

	card, err := h.sessions.ToggleCurrentDone(r.Context(), params[0])
	if err != nil && !store.IsPersistenceError(err) {
		HandleAPIError(w, r, err, "")
		return
	}

	session, getErr := h.sessions.Get(params[0])
	if getErr != nil {
		HandleAPIError(w, r, getErr, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("card toggled from session",
		slog.String("session_id", params[0]),
		slog.String("card_id", card.ID),
		slog.Bool("is_done", card.IsDone))
	respondPersisted(w, r, http.StatusOK, viewToResponse(session.View()), err)
}

// SetFilter handles PUT /api/sessions/{sessionID}/filter
func (h *SessionHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SetFilterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	filter, err := domain.ParseFilter(req.Filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := session.SetFilter(filter); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, viewToResponse(session.View()))
}

// CloseSession handles DELETE /api/sessions/{sessionID}
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "sessionID")
	if !ok {
		return
	}
	if err := h.sessions.Close(params[0]); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*review.Session, bool) {
	params, ok := handlePathParams(w, r, "sessionID")
	if !ok {
		return nil, false
	}
	session, err := h.sessions.Get(params[0])
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) navigate(w http.ResponseWriter, r *http.Request, move func(*review.Session) error) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := move(session); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, viewToResponse(session.View()))
}
