package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/events"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
)

// DefaultSessionTTL is how long an idle session stays open.
const DefaultSessionTTL = time.Hour

// DeckService is the part of the deck store a review session acts on.
type DeckService interface {
	DeckReader
	ToggleCardDone(ctx context.Context, deckID, cardID string) (domain.Card, error)
	ShuffleDeck(ctx context.Context, deckID string) (domain.Deck, error)
}

// Manager keeps open sessions addressable by id. Sessions expire after a
// period without access.
//
// Manager implements events.EventHandler; register it with the emitter the
// deck store publishes to so that sessions follow deck changes.
type Manager struct {
	decks    DeckService
	sessions *gocache.Cache
	ttl      time.Duration
	logger   *slog.Logger
}

var _ events.EventHandler = (*Manager)(nil)

// NewManager creates a Manager. A non-positive ttl selects DefaultSessionTTL.
func NewManager(decks DeckService, ttl time.Duration, log *slog.Logger) (*Manager, error) {
	if decks == nil {
		return nil, fmt.Errorf("deck service cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		decks:    decks,
		sessions: gocache.New(ttl, ttl/2),
		ttl:      ttl,
		logger:   log.With("component", "review_manager"),
	}, nil
}

// Open starts a session on deckID. With shuffle set the deck is shuffled,
// and the new order persisted, before the session binds to it.
func (m *Manager) Open(ctx context.Context, deckID string, filter domain.Filter, shuffle bool) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if shuffle {
		if _, err := m.decks.ShuffleDeck(ctx, deckID); err != nil {
			if !store.IsPersistenceError(err) {
				return nil, err
			}
			log.Warn("shuffled order not saved", "deck_id", deckID, "error", err)
		}
	}

	session, err := Open(m.decks, deckID, filter)
	if err != nil {
		return nil, err
	}
	m.sessions.SetDefault(session.ID(), session)

	log.Info("review session opened",
		"session_id", session.ID(),
		"deck_id", deckID,
		"filter", session.Filter(),
		"shuffled", shuffle)
	return session, nil
}

// Get returns the session with the given id and extends its lifetime.
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := v.(*Session)
	m.sessions.SetDefault(id, session)
	return session, nil
}

// Close forgets a session.
func (m *Manager) Close(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	m.sessions.Delete(id)
	session.Close()
	return nil
}

// Len reports how many sessions are open.
func (m *Manager) Len() int {
	return m.sessions.ItemCount()
}

// ToggleCurrentDone flips the done flag of the session's current card.
// Under the undone filter the card leaves the view and the cursor is
// clamped onto the remaining cards.
func (m *Manager) ToggleCurrentDone(ctx context.Context, id string) (domain.Card, error) {
	session, err := m.Get(id)
	if err != nil {
		return domain.Card{}, err
	}
	if session.Closed() {
		return domain.Card{}, ErrSessionClosed
	}
	card, ok := session.CurrentCard()
	if !ok {
		if session.Closed() {
			return domain.Card{}, ErrSessionClosed
		}
		return domain.Card{}, ErrNoCurrentCard
	}

	// The session lock is not held here: the store notifies HandleEvent,
	// which takes it.
	updated, err := m.decks.ToggleCardDone(ctx, session.DeckID(), card.ID)
	session.OnDeckMutated()
	return updated, err
}

// HandleEvent keeps sessions in step with deck changes: a deleted deck
// closes its sessions, a shuffle rewinds them, anything else re-clamps.
func (m *Manager) HandleEvent(ctx context.Context, event *events.DeckEvent) error {
	if event == nil {
		return nil
	}

	affected := 0
	for _, item := range m.sessions.Items() {
		session, ok := item.Object.(*Session)
		if !ok || session.DeckID() != event.DeckID {
			continue
		}
		affected++

		switch event.Type {
		case events.DeckDeleted:
			session.Close()
		case events.DeckShuffled:
			session.Rewind()
		default:
			session.OnDeckMutated()
		}
	}

	if affected > 0 {
		logger.FromContextOrDefault(ctx, m.logger).Debug("sessions updated after deck change",
			"event_type", event.Type,
			"deck_id", event.DeckID,
			"sessions", affected)
	}
	return nil
}
