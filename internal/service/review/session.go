package review

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/store"
)

// DeckReader reads the live state of a deck.
type DeckReader interface {
	GetDeck(id string) (domain.Deck, error)
}

// View is what a presentation layer renders for a session.
type View struct {
	SessionID string        `json:"sessionId" yaml:"session_id"`
	DeckID    string        `json:"deckId" yaml:"deck_id"`
	DeckTitle string        `json:"deckTitle,omitempty" yaml:"deck_title,omitempty"`
	Filter    domain.Filter `json:"filter" yaml:"filter"`

	// Index is the zero-based cursor; Position is Index+1, or 0 when empty.
	Index    int `json:"index" yaml:"index"`
	Position int `json:"position" yaml:"position"`

	// Count is the size of the filtered view, Total the size of the deck.
	Count int `json:"count" yaml:"count"`
	Total int `json:"total" yaml:"total"`
	Done  int `json:"done" yaml:"done"`

	Card     *domain.Card `json:"card,omitempty" yaml:"card,omitempty"`
	Revealed bool         `json:"revealed" yaml:"revealed"`

	AtEnd   bool `json:"atEnd" yaml:"at_end"`
	AllDone bool `json:"allDone" yaml:"all_done"`
	Closed  bool `json:"closed" yaml:"closed"`
}

// Session walks the filtered cards of one deck.
// All methods are safe for concurrent use.
type Session struct {
	id     string
	deckID string
	decks  DeckReader

	mu        sync.Mutex
	filter    domain.Filter
	cursor    int
	revealed  bool
	currentID string
	closed    bool
}

// Open binds a new session to deckID with the cursor on the first card.
// An empty filter means domain.FilterAll.
func Open(decks DeckReader, deckID string, filter domain.Filter) (*Session, error) {
	if filter == "" {
		filter = domain.FilterAll
	}
	if !filter.Valid() {
		return nil, domain.NewValidationError("filter", "must be all or undone", domain.ErrInvalidFilter)
	}
	deck, err := decks.GetDeck(deckID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:     uuid.NewString(),
		deckID: deckID,
		decks:  decks,
		filter: filter,
	}
	s.settle(domain.FilterCards(deck.Cards, filter))
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// DeckID returns the id of the deck the session is bound to.
func (s *Session) DeckID() string { return s.deckID }

// Filter returns the active filter.
func (s *Session) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Closed reports whether the deck behind the session has been deleted.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, _ = s.load()
	return s.closed
}

// SetFilter switches the filter and returns to the first card.
func (s *Session) SetFilter(filter domain.Filter) error {
	if !filter.Valid() {
		return domain.NewValidationError("filter", "must be all or undone", domain.ErrInvalidFilter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.load(); err != nil {
		return err
	}
	s.filter = filter
	s.cursor = 0
	s.revealed = false
	_, _, err := s.load()
	return err
}

// CurrentCard returns the card under the cursor. ok is false when the
// filtered view is empty or the session is closed.
func (s *Session) CurrentCard() (card domain.Card, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cards, _ := s.load()
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	return cards[s.cursor], true
}

// Next moves to the following card, stopping at the last one.
func (s *Session) Next() error {
	return s.mutate(func(count int) {
		s.cursor = min(s.cursor+1, max(0, count-1))
	})
}

// Prev moves to the preceding card, stopping at the first one.
func (s *Session) Prev() error {
	return s.mutate(func(int) {
		s.cursor = max(s.cursor-1, 0)
	})
}

// Restart returns to the first card without changing the deck order.
func (s *Session) Restart() error {
	return s.mutate(func(int) {
		s.cursor = 0
		s.revealed = false
	})
}

// Flip toggles whether the answer of the current card is shown.
func (s *Session) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cards, err := s.load()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return ErrNoCurrentCard
	}
	s.revealed = !s.revealed
	return nil
}

// OnDeckMutated re-reads the deck and pulls the cursor back onto the last
// card if the filtered view shrank below it. A deleted deck closes the session.
func (s *Session) OnDeckMutated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, _ = s.load()
}

// Rewind puts the cursor back on the first card. It is used after the deck
// was reordered.
func (s *Session) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cursor = 0
	s.revealed = false
	_, _, _ = s.load()
}

// Close marks the session as no longer bound to a live deck.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// View returns a snapshot of the session for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID: s.id,
		DeckID:    s.deckID,
		Filter:    s.filter,
	}
	deck, cards, err := s.load()
	if err != nil {
		v.Closed = s.closed
		return v
	}

	v.DeckTitle = deck.Title
	v.Index = s.cursor
	v.Count = len(cards)
	v.Total = len(deck.Cards)
	v.Done = deck.DoneCount()
	v.Revealed = s.revealed
	v.AllDone = len(cards) == 0
	if len(cards) > 0 {
		card := cards[s.cursor]
		v.Card = &card
		v.Position = s.cursor + 1
		v.AtEnd = s.cursor == len(cards)-1
	}
	return v
}

// mutate applies fn to the cursor state and settles it against the live
// filtered view. count is the size of that view.
func (s *Session) mutate(fn func(count int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cards, err := s.load()
	if err != nil {
		return err
	}
	fn(len(cards))
	s.settle(cards)
	return nil
}

// load reads the live deck and its filtered view and settles the cursor
// against it. A deleted deck closes the session. Must be called with s.mu held.
func (s *Session) load() (domain.Deck, []domain.Card, error) {
	if s.closed {
		return domain.Deck{}, nil, ErrSessionClosed
	}
	deck, err := s.decks.GetDeck(s.deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			s.close()
			return domain.Deck{}, nil, ErrSessionClosed
		}
		return domain.Deck{}, nil, err
	}
	cards := domain.FilterCards(deck.Cards, s.filter)
	s.settle(cards)
	return deck, cards, nil
}

// settle clamps the cursor into the filtered view and hides the answer when
// the card under the cursor is a different one than before.
func (s *Session) settle(cards []domain.Card) {
	if s.cursor >= len(cards) {
		s.cursor = max(0, len(cards)-1)
	}
	if s.cursor < 0 {
		s.cursor = 0
	}

	currentID := ""
	if len(cards) > 0 {
		currentID = cards[s.cursor].ID
	}
	if currentID != s.currentID {
		s.revealed = false
		s.currentID = currentID
	}
}

func (s *Session) close() {
	s.closed = true
	s.cursor = 0
	s.revealed = false
	s.currentID = ""
}
