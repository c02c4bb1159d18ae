package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/platform/logger"
)

// CardHandler handles card edits within a deck
type CardHandler struct {
	decks  DeckStore
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(decks DeckStore, log *slog.Logger) *CardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		decks:  decks,
		logger: log.With(slog.String("component", "card_handler")),
	}
}

// AddCard handles POST /api/decks/{deckID}/cards
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}
	var req CardInput
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card := req.toDomain()
	if strings.TrimSpace(card.ID) == "" {
		card.ID = uuid.NewString()
	}

	added, err := h.decks.AddCard(r.Context(), params[0], card)
	if err == nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("card added",
			slog.String("deck_id", params[0]),
			slog.String("card_id", added.ID))
	}
	respondPersisted(w, r, http.StatusCreated, cardToRecord(added), err)
}

// UpdateCard handles PUT /api/decks/{deckID}/cards/{cardID}
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID", "cardID")
	if !ok {
		return
	}
	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.UpdateCard(r.Context(), params[0], params[1], req.toPatch())
	respondPersisted(w, r, http.StatusOK, cardToRecord(card), err)
}

// DeleteCard handles DELETE /api/decks/{deckID}/cards/{cardID}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID", "cardID")
	if !ok {
		return
	}

	err := h.decks.DeleteCard(r.Context(), params[0], params[1])
	respondPersisted(w, r, http.StatusNoContent, nil, err)
}

// ToggleCard handles POST /api/decks/{deckID}/cards/{cardID}/toggle
func (h *CardHandler) ToggleCard(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID", "cardID")
	if !ok {
		return
	}

	card, err := h.decks.ToggleCardDone(r.Context(), params[0], params[1])
	respondPersisted(w, r, http.StatusOK, cardToRecord(card), err)
}
