package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/events"
)

// DeckStore owns the collection of all decks, newest first.
//
// Every mutating method applies its change in memory, writes the whole
// collection to the Slot and then emits a DeckEvent. A failed write does not
// roll the change back: the method returns the updated value together with an
// error wrapping ErrPersistence.
//
// Declined operations (unknown deck or card, invalid input) leave the
// collection untouched and return ErrDeckNotFound, ErrCardNotFound or a
// domain.ErrValidation error.
//
// All methods are safe for concurrent use. Values returned are copies.
type DeckStore struct {
	mu      sync.RWMutex
	slot    Slot
	decks   []domain.Deck
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
	intN    func(n int) int
}

// Option configures a DeckStore.
type Option func(*DeckStore)

// WithEventEmitter makes the store publish a DeckEvent after each change.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *DeckStore) { s.emitter = emitter }
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *DeckStore) { s.now = now }
}

// WithRandom overrides the random source used by ShuffleDeck.
// intN must return a uniformly distributed integer in [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(s *DeckStore) { s.intN = intN }
}

// NewDeckStore creates an empty DeckStore backed by slot.
// Call Load to hydrate it from storage.
func NewDeckStore(slot Slot, logger *slog.Logger, opts ...Option) (*DeckStore, error) {
	if slot == nil {
		return nil, fmt.Errorf("slot cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &DeckStore{
		slot:   slot,
		decks:  []domain.Deck{},
		logger: logger.With("component", "deck_store"),
		now:    time.Now,
		intN:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load replaces the in-memory collection with the persisted one and returns
// a copy of it. Missing or unreadable data yields an empty collection; the
// failure is logged, never returned.
func (s *DeckStore) Load(ctx context.Context) []domain.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decks = s.readSlot(ctx)
	return cloneDecks(s.decks)
}

func (s *DeckStore) readSlot(ctx context.Context) []domain.Deck {
	data, err := s.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			s.logger.InfoContext(ctx, "no stored decks found, starting empty")
		} else {
			s.logger.WarnContext(ctx, "failed to read stored decks, starting empty", "error", err)
		}
		return []domain.Deck{}
	}

	result, err := DecodeDecks(data)
	if err != nil {
		s.logger.WarnContext(ctx, "stored decks are corrupt, starting empty",
			"error", err,
			"bytes", len(data))
		return []domain.Deck{}
	}
	if result.Skipped > 0 {
		s.logger.WarnContext(ctx, "dropped unreadable entries from stored decks",
			"skipped", result.Skipped)
	}

	s.logger.InfoContext(ctx, "loaded decks", "deck_count", len(result.Decks))
	return result.Decks
}

// Save writes the current collection to the slot.
func (s *DeckStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, "save")
}

// persist must be called with s.mu held.
func (s *DeckStore) persist(ctx context.Context, operation string) error {
	data, err := EncodeDecks(s.decks)
	if err == nil {
		err = s.slot.Write(ctx, data)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist decks, change kept in memory only",
			"operation", operation,
			"error", err)
		return NewStoreError("decks", operation, "write failed", fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	return nil
}

func (s *DeckStore) emit(ctx context.Context, eventType events.DeckEventType, deckID, cardID string) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, events.NewDeckEvent(eventType, deckID, cardID)); err != nil {
		s.logger.WarnContext(ctx, "deck event handler failed",
			"event_type", eventType,
			"deck_id", deckID,
			"error", err)
	}
}

// ListDecks returns a copy of all decks, newest first.
func (s *DeckStore) ListDecks() []domain.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDecks(s.decks)
}

// GetDeck returns a copy of the deck with the given ID.
// Returns ErrDeckNotFound if it does not exist.
func (s *DeckStore) GetDeck(id string) (domain.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Deck{}, ErrDeckNotFound
	}
	return s.decks[i].Clone(), nil
}

// CreateDeck adds a new deck at the front of the collection.
// A blank title becomes the placeholder title. Cards without an ID get a
// fresh one; card text is trimmed and a blank context dropped.
func (s *DeckStore) CreateDeck(ctx context.Context, title string, cards []domain.Card) (domain.Deck, error) {
	prepared := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		c = c.Normalized()
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		prepared = append(prepared, c)
	}

	deck, err := domain.NewDeck(title, prepared, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return domain.Deck{}, err
	}

	s.mu.Lock()
	s.decks = append([]domain.Deck{*deck}, s.decks...)
	err = s.persist(ctx, "create")
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "deck created",
		"deck_id", deck.ID,
		"card_count", len(deck.Cards))
	s.emit(ctx, events.DeckCreated, deck.ID, "")

	return deck.Clone(), err
}

// ImportDecks adds decks whose IDs are not already present, keeping their
// IDs, cards and creation times. Imported decks go to the front in the order
// given. It returns how many decks were added.
func (s *DeckStore) ImportDecks(ctx context.Context, decks []domain.Deck) (int, error) {
	for i := range decks {
		if err := decks[i].Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	added := make([]domain.Deck, 0, len(decks))
	for i := range decks {
		if s.indexOf(decks[i].ID) >= 0 {
			continue
		}
		added = append(added, decks[i].Clone())
	}
	if len(added) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.decks = append(added, s.decks...)
	err := s.persist(ctx, "import")
	s.mu.Unlock()

	for i := range added {
		s.emit(ctx, events.DeckCreated, added[i].ID, "")
	}
	return len(added), err
}

// DeleteDeck removes a deck. Returns ErrDeckNotFound if it does not exist.
func (s *DeckStore) DeleteDeck(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	s.decks = append(s.decks[:i:i], s.decks[i+1:]...)
	err := s.persist(ctx, "delete")
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "deck deleted", "deck_id", id)
	s.emit(ctx, events.DeckDeleted, id, "")
	return err
}

// RenameDeck sets a new title. A title that trims to empty is rejected.
func (s *DeckStore) RenameDeck(ctx context.Context, id, title string) (domain.Deck, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Deck{}, domain.NewValidationError("title", "must not be empty", domain.ErrDeckTitleEmpty)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Deck{}, ErrDeckNotFound
	}
	s.decks[i].Title = title
	out := s.decks[i].Clone()
	err := s.persist(ctx, "rename")
	s.mu.Unlock()

	s.emit(ctx, events.DeckRenamed, id, "")
	return out, err
}

// AddCard appends a card to a deck. The card must carry an ID not already
// used in the deck; term and definition must be non-blank after trimming.
func (s *DeckStore) AddCard(ctx context.Context, deckID string, card domain.Card) (domain.Card, error) {
	card = card.Normalized()
	if err := card.Validate(); err != nil {
		return domain.Card{}, err
	}

	s.mu.Lock()
	i := s.indexOf(deckID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Card{}, ErrDeckNotFound
	}
	if s.decks[i].CardIndex(card.ID) >= 0 {
		s.mu.Unlock()
		return domain.Card{}, ErrCardIDExists
	}
	s.decks[i].Cards = append(s.decks[i].Cards, card.Clone())
	err := s.persist(ctx, "add_card")
	s.mu.Unlock()

	s.emit(ctx, events.CardAdded, deckID, card.ID)
	return card, err
}

// UpdateCard applies patch to one card. The card keeps its ID and done flag.
func (s *DeckStore) UpdateCard(ctx context.Context, deckID, cardID string, patch domain.CardPatch) (domain.Card, error) {
	s.mu.Lock()
	i, j, err := s.locate(deckID, cardID)
	if err != nil {
		s.mu.Unlock()
		return domain.Card{}, err
	}

	updated, err := patch.Apply(s.decks[i].Cards[j])
	if err != nil {
		s.mu.Unlock()
		return domain.Card{}, err
	}
	s.decks[i].Cards[j] = updated
	err = s.persist(ctx, "update_card")
	s.mu.Unlock()

	s.emit(ctx, events.CardUpdated, deckID, cardID)
	return updated.Clone(), err
}

// DeleteCard removes one card from a deck.
func (s *DeckStore) DeleteCard(ctx context.Context, deckID, cardID string) error {
	s.mu.Lock()
	i, j, err := s.locate(deckID, cardID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	cards := s.decks[i].Cards
	s.decks[i].Cards = append(cards[:j:j], cards[j+1:]...)
	err = s.persist(ctx, "delete_card")
	s.mu.Unlock()

	s.emit(ctx, events.CardDeleted, deckID, cardID)
	return err
}

// ToggleCardDone flips a card's done flag and returns the updated card.
func (s *DeckStore) ToggleCardDone(ctx context.Context, deckID, cardID string) (domain.Card, error) {
	s.mu.Lock()
	i, j, err := s.locate(deckID, cardID)
	if err != nil {
		s.mu.Unlock()
		return domain.Card{}, err
	}
	s.decks[i].Cards[j].IsDone = !s.decks[i].Cards[j].IsDone
	out := s.decks[i].Cards[j].Clone()
	err = s.persist(ctx, "toggle_card")
	s.mu.Unlock()

	s.emit(ctx, events.CardToggled, deckID, cardID)
	return out, err
}

// ShuffleDeck randomly reorders a deck's cards in place and persists the
// new order.
func (s *DeckStore) ShuffleDeck(ctx context.Context, deckID string) (domain.Deck, error) {
	s.mu.Lock()
	i := s.indexOf(deckID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Deck{}, ErrDeckNotFound
	}
	domain.Shuffle(s.decks[i].Cards, s.intN)
	out := s.decks[i].Clone()
	err := s.persist(ctx, "shuffle")
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "deck shuffled", "deck_id", deckID)
	s.emit(ctx, events.DeckShuffled, deckID, "")
	return out, err
}

func (s *DeckStore) indexOf(deckID string) int {
	for i := range s.decks {
		if s.decks[i].ID == deckID {
			return i
		}
	}
	return -1
}

func (s *DeckStore) locate(deckID, cardID string) (int, int, error) {
	i := s.indexOf(deckID)
	if i < 0 {
		return -1, -1, ErrDeckNotFound
	}
	j := s.decks[i].CardIndex(cardID)
	if j < 0 {
		return -1, -1, ErrCardNotFound
	}
	return i, j, nil
}

func cloneDecks(decks []domain.Deck) []domain.Deck {
	out := make([]domain.Deck, len(decks))
	for i := range decks {
		out[i] = decks[i].Clone()
	}
	return out
}
