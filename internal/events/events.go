package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeckEventType names the kind of change a DeckEvent reports.
type DeckEventType string

// Deck event types emitted by the deck store after a change is persisted.
const (
	DeckCreated  DeckEventType = "deck.created"
	DeckRenamed  DeckEventType = "deck.renamed"
	DeckDeleted  DeckEventType = "deck.deleted"
	DeckShuffled DeckEventType = "deck.shuffled"
	CardAdded    DeckEventType = "card.added"
	CardUpdated  DeckEventType = "card.updated"
	CardDeleted  DeckEventType = "card.deleted"
	CardToggled  DeckEventType = "card.toggled"
)

// DeckEvent reports a change to one deck. It carries identifiers only;
// handlers that need the new state read it back from the store.
type DeckEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what changed
	Type DeckEventType `json:"type"`

	// DeckID is the deck that changed
	DeckID string `json:"deck_id"`

	// CardID is set for card-level events
	CardID string `json:"card_id,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewDeckEvent creates a DeckEvent of the given type.
func NewDeckEvent(eventType DeckEventType, deckID, cardID string) *DeckEvent {
	return &DeckEvent{
		ID:        uuid.New(),
		Type:      eventType,
		DeckID:    deckID,
		CardID:    cardID,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that react to deck changes.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *DeckEvent) error
}

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *DeckEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *DeckEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the store to publish changes without knowing who listens.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *DeckEvent) error
}
