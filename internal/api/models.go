package api

import (
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
)

// CardInput is one card in a create or add request. An empty ID gets a
// fresh one.
type CardInput struct {
	ID         string  `json:"id,omitempty"`
	Term       string  `json:"term" validate:"required"`
	Definition string  `json:"definition" validate:"required"`
	Context    *string `json:"context,omitempty"`
}

// CreateDeckRequest is the body of POST /api/decks.
type CreateDeckRequest struct {
	Title string      `json:"title"`
	Cards []CardInput `json:"cards" validate:"dive"`
}

// RenameDeckRequest is the body of PATCH /api/decks/{deckID}.
type RenameDeckRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateCardRequest is the body of PUT /api/decks/{deckID}/cards/{cardID}.
// Omitted fields are left unchanged; an empty context removes it.
type UpdateCardRequest struct {
	Term       *string `json:"term,omitempty"`
	Definition *string `json:"definition,omitempty"`
	Context    *string `json:"context,omitempty"`
}

// GenerateRequest is the body of POST /api/generations.
type GenerateRequest struct {
	Text  string `json:"text" validate:"required"`
	Title string `json:"title"`
}

// OpenSessionRequest is the body of POST /api/sessions.
type OpenSessionRequest struct {
	DeckID  string `json:"deckId" validate:"required"`
	Filter  string `json:"filter" validate:"omitempty,oneof=all undone"`
	Shuffle bool   `json:"shuffle"`
}

// SetFilterRequest is the body of PUT /api/sessions/{sessionID}/filter.
type SetFilterRequest struct {
	Filter string `json:"filter" validate:"required,oneof=all undone"`
}

// DeckSummary is one entry of GET /api/decks.
type DeckSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CardCount int    `json:"cardCount"`
	DoneCount int    `json:"doneCount"`
	CreatedAt int64  `json:"createdAt"`
}

// ImportResponse reports the outcome of POST /api/decks/import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SessionResponse is the view of a review session. The current card uses
// the same shape as cards in deck responses.
type SessionResponse struct {
	SessionID string            `json:"sessionId"`
	DeckID    string            `json:"deckId"`
	DeckTitle string            `json:"deckTitle,omitempty"`
	Filter    domain.Filter     `json:"filter"`
	Index     int               `json:"index"`
	Position  int               `json:"position"`
	Count     int               `json:"count"`
	Total     int               `json:"total"`
	Done      int               `json:"done"`
	Card      *store.CardRecord `json:"card,omitempty"`
	Revealed  bool              `json:"revealed"`
	AtEnd     bool              `json:"atEnd"`
	AllDone   bool              `json:"allDone"`
	Closed    bool              `json:"closed"`
}

func (c CardInput) toDomain() domain.Card {
	return domain.Card{
		ID:         c.ID,
		Term:       c.Term,
		Definition: c.Definition,
		Context:    c.Context,
	}
}

func (u UpdateCardRequest) toPatch() domain.CardPatch {
	return domain.CardPatch{Term: u.Term, Definition: u.Definition, Context: u.Context}
}

func deckToSummary(deck domain.Deck) DeckSummary {
	return DeckSummary{
		ID:        deck.ID,
		Title:     deck.Title,
		CardCount: len(deck.Cards),
		DoneCount: deck.DoneCount(),
		CreatedAt: deck.CreatedAt.UnixMilli(),
	}
}

func cardToRecord(card domain.Card) store.CardRecord {
	card = card.Clone()
	return store.CardRecord{
		ID:         card.ID,
		Term:       card.Term,
		Definition: card.Definition,
		Context:    card.Context,
		IsDone:     card.IsDone,
	}
}

func viewToResponse(v review.View) SessionResponse {
	resp := SessionResponse{
		SessionID: v.SessionID,
		DeckID:    v.DeckID,
		DeckTitle: v.DeckTitle,
		Filter:    v.Filter,
		Index:     v.Index,
		Position:  v.Position,
		Count:     v.Count,
		Total:     v.Total,
		Done:      v.Done,
		Revealed:  v.Revealed,
		AtEnd:     v.AtEnd,
		AllDone:   v.AllDone,
		Closed:    v.Closed,
	}
	if v.Card != nil {
		rec := cardToRecord(*v.Card)
		resp.Card = &rec
	}
	return resp
}
