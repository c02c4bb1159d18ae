package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/smartflash/internal/api/shared"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
)

// DeckStore is the deck collection the deck and card handlers operate on.
// *store.DeckStore implements it.
type DeckStore interface {
	ListDecks() []domain.Deck
	GetDeck(id string) (domain.Deck, error)
	CreateDeck(ctx context.Context, title string, cards []domain.Card) (domain.Deck, error)
	ImportDecks(ctx context.Context, decks []domain.Deck) (int, error)
	DeleteDeck(ctx context.Context, id string) error
	RenameDeck(ctx context.Context, id, title string) (domain.Deck, error)
	ShuffleDeck(ctx context.Context, id string) (domain.Deck, error)
	AddCard(ctx context.Context, deckID string, card domain.Card) (domain.Card, error)
	UpdateCard(ctx context.Context, deckID, cardID string, patch domain.CardPatch) (domain.Card, error)
	DeleteCard(ctx context.Context, deckID, cardID string) error
	ToggleCardDone(ctx context.Context, deckID, cardID string) (domain.Card, error)
}

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	decks  DeckStore
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks DeckStore, log *slog.Logger) *DeckHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: log.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /api/decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks := h.decks.ListDecks()
	summaries := make([]DeckSummary, 0, len(decks))
	for i := range decks {
		summaries = append(summaries, deckToSummary(decks[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// CreateDeck handles POST /api/decks. Cards are given explicitly; no
// extraction takes place.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cards := make([]domain.Card, 0, len(req.Cards))
	for _, c := range req.Cards {
		cards = append(cards, c.toDomain())
	}

	deck, err := h.decks.CreateDeck(r.Context(), req.Title, cards)
	if err != nil && !store.IsPersistenceError(err) {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("deck created via api",
		slog.String("deck_id", deck.ID),
		slog.Int("card_count", len(deck.Cards)))
	respondPersisted(w, r, http.StatusCreated, store.ToRecord(deck), err)
}

// GetDeck handles GET /api/decks/{deckID}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(params[0])
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, store.ToRecord(deck))
}

// RenameDeck handles PATCH /api/decks/{deckID}
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}
	var req RenameDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.decks.RenameDeck(r.Context(), params[0], req.Title)
	respondPersisted(w, r, http.StatusOK, store.ToRecord(deck), err)
}

// DeleteDeck handles DELETE /api/decks/{deckID}
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}

	err := h.decks.DeleteDeck(r.Context(), params[0])
	respondPersisted(w, r, http.StatusNoContent, nil, err)
}

// ShuffleDeck handles POST /api/decks/{deckID}/shuffle
func (h *DeckHandler) ShuffleDeck(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.decks.ShuffleDeck(r.Context(), params[0])
	respondPersisted(w, r, http.StatusOK, store.ToRecord(deck), err)
}

// ExportDeck handles GET /api/decks/{deckID}/export?format=json|yaml
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	params, ok := handlePathParams(w, r, "deckID")
	if !ok {
		return
	}

	format, err := store.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deck, err := h.decks.GetDeck(params[0])
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	body, err := store.ExportDecks([]domain.Deck{deck}, format)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export deck")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "deck-"+deck.ID+"."+format.Extension()))
	shared.RespondWithBytes(w, r, http.StatusOK, format.ContentType(), body)
}

// ImportDecks handles POST /api/decks/import. The body is an exported
// collection in JSON or YAML; the format comes from ?format= or the
// Content-Type header. Decks whose ids already exist are skipped.
func (h *DeckHandler) ImportDecks(w http.ResponseWriter, r *http.Request) {
	format := store.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := store.ParseExportFormat(q)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		format = f
	} else if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = store.FormatYAML
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, shared.MaxBodyBytes))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		HandleAPIError(w, r, shared.ErrEmptyBody, "")
		return
	}

	decoded, err := store.DecodeExport(data, format)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	imported, err := h.decks.ImportDecks(r.Context(), decoded.Decks)
	resp := ImportResponse{
		Imported: imported,
		Skipped:  decoded.Skipped + len(decoded.Decks) - imported,
	}
	respondPersisted(w, r, http.StatusOK, resp, err)
}
