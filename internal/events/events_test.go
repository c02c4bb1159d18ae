package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDeckEvent(t *testing.T) {
	event := NewDeckEvent(CardToggled, "deck-1", "card-1")

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, CardToggled, event.Type)
	assert.Equal(t, "deck-1", event.DeckID)
	assert.Equal(t, "card-1", event.CardID)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *DeckEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *DeckEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandlerFunc(t *testing.T) {
	var got *DeckEvent
	handler := EventHandlerFunc(func(ctx context.Context, event *DeckEvent) error {
		got = event
		return errors.New("boom")
	})

	event := NewDeckEvent(DeckDeleted, "d", "")
	err := handler.HandleEvent(context.Background(), event)

	assert.EqualError(t, err, "boom")
	assert.Same(t, event, got)
}
