package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/smartflash/internal/domain"
)

// DeckRecord is the serialized form of a deck. Field names and the
// millisecond timestamp match the browser build's localStorage layout.
type DeckRecord struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Cards     []CardRecord `json:"cards" yaml:"cards"`
	CreatedAt int64        `json:"createdAt" yaml:"createdAt"`
}

// CardRecord is the serialized form of a card.
type CardRecord struct {
	ID         string  `json:"id" yaml:"id"`
	Term       string  `json:"term" yaml:"term"`
	Definition string  `json:"definition" yaml:"definition"`
	Context    *string `json:"context,omitempty" yaml:"context,omitempty"`
	IsDone     bool    `json:"isDone" yaml:"isDone"`
}

// ToRecords converts decks into their serialized form.
func ToRecords(decks []domain.Deck) []DeckRecord {
	out := make([]DeckRecord, 0, len(decks))
	for i := range decks {
		out = append(out, ToRecord(decks[i]))
	}
	return out
}

// ToRecord converts one deck into its serialized form.
func ToRecord(deck domain.Deck) DeckRecord {
	rec := DeckRecord{
		ID:        deck.ID,
		Title:     deck.Title,
		Cards:     make([]CardRecord, 0, len(deck.Cards)),
		CreatedAt: deck.CreatedAt.UnixMilli(),
	}
	for _, c := range deck.Cards {
		c = c.Clone()
		rec.Cards = append(rec.Cards, CardRecord{
			ID:         c.ID,
			Term:       c.Term,
			Definition: c.Definition,
			Context:    c.Context,
			IsDone:     c.IsDone,
		})
	}
	return rec
}

// EncodeDecks serializes the whole collection as a JSON array.
func EncodeDecks(decks []domain.Deck) ([]byte, error) {
	data, err := json.Marshal(ToRecords(decks))
	if err != nil {
		return nil, fmt.Errorf("failed to encode decks: %w", err)
	}
	return data, nil
}

// DecodeResult is the outcome of decoding a stored collection.
type DecodeResult struct {
	Decks []domain.Deck
	// Skipped counts decks and cards dropped because they could not be
	// parsed or failed validation.
	Skipped int
}

// DecodeDecks parses a stored collection.
//
// Decoding is tolerant: unknown fields are ignored, a missing isDone is false,
// a missing or blank context is absent and a blank title becomes the
// placeholder title. Individual decks or cards that cannot be used are
// dropped and counted in Skipped. Only data that is not a JSON array at all
// yields ErrMalformedData.
func DecodeDecks(data []byte) (DecodeResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return DecodeResult{Decks: []domain.Deck{}}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	result := DecodeResult{Decks: make([]domain.Deck, 0, len(raw))}
	seenDecks := make(map[string]struct{}, len(raw))

	for _, item := range raw {
		var rec struct {
			ID        string            `json:"id"`
			Title     string            `json:"title"`
			Cards     []json.RawMessage `json:"cards"`
			CreatedAt int64             `json:"createdAt"`
		}
		if err := json.Unmarshal(item, &rec); err != nil || strings.TrimSpace(rec.ID) == "" {
			result.Skipped++
			continue
		}
		if _, dup := seenDecks[rec.ID]; dup {
			result.Skipped++
			continue
		}
		seenDecks[rec.ID] = struct{}{}

		title := strings.TrimSpace(rec.Title)
		if title == "" {
			title = domain.UntitledDeck
		}

		deck := domain.Deck{
			ID:        rec.ID,
			Title:     title,
			Cards:     make([]domain.Card, 0, len(rec.Cards)),
			CreatedAt: time.UnixMilli(rec.CreatedAt).UTC(),
		}

		seenCards := make(map[string]struct{}, len(rec.Cards))
		for _, rawCard := range rec.Cards {
			var cr CardRecord
			if err := json.Unmarshal(rawCard, &cr); err != nil {
				result.Skipped++
				continue
			}
			card := domain.Card{
				ID:         cr.ID,
				Term:       cr.Term,
				Definition: cr.Definition,
				Context:    cr.Context,
				IsDone:     cr.IsDone,
			}.Normalized()

			if card.Validate() != nil {
				result.Skipped++
				continue
			}
			if _, dup := seenCards[card.ID]; dup {
				result.Skipped++
				continue
			}
			seenCards[card.ID] = struct{}{}
			deck.Cards = append(deck.Cards, card)
		}

		result.Decks = append(result.Decks, deck)
	}

	return result, nil
}
