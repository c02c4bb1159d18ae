package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledDeck is the title given to a deck created without one.
const UntitledDeck = "Untitled Deck"

// MaxDefaultTitleLength caps the title derived from source text, in characters.
const MaxDefaultTitleLength = 30

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckTitleEmpty is returned when a deck title is blank.
	ErrDeckTitleEmpty = errors.New("deck title cannot be empty")

	// ErrDuplicateCardID is returned when two cards in a deck share an ID.
	ErrDuplicateCardID = errors.New("duplicate card ID in deck")
)

// Deck is a titled, ordered collection of cards. The order of Cards is the
// review order; CreatedAt never changes after creation.
type Deck struct {
	ID        string
	Title     string
	Cards     []Card
	CreatedAt time.Time
}

// NewDeck creates a Deck with a fresh ID and the given creation time.
// A blank title falls back to UntitledDeck. The cards slice is copied.
func NewDeck(title string, cards []Card, createdAt time.Time) (*Deck, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledDeck
	}

	deck := &Deck{
		ID:        uuid.NewString(),
		Title:     title,
		Cards:     cloneCards(cards),
		CreatedAt: createdAt,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks the deck and every card it holds.
func (d *Deck) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return NewValidationError("id", "must not be empty", ErrDeckIDEmpty)
	}

	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", "must not be empty", ErrDeckTitleEmpty)
	}

	seen := make(map[string]struct{}, len(d.Cards))
	for i := range d.Cards {
		if err := d.Cards[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Cards[i].ID]; dup {
			return NewValidationError("cards", "card ID "+d.Cards[i].ID+" is used twice", ErrDuplicateCardID)
		}
		seen[d.Cards[i].ID] = struct{}{}
	}

	return nil
}

// CardIndex returns the position of the card with the given ID, or -1.
func (d *Deck) CardIndex(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// DoneCount returns how many cards are marked done.
func (d *Deck) DoneCount() int {
	n := 0
	for i := range d.Cards {
		if d.Cards[i].IsDone {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the deck.
func (d Deck) Clone() Deck {
	out := d
	out.Cards = cloneCards(d.Cards)
	return out
}

// DefaultTitle derives a deck title from source text: the first line,
// trimmed and cut to MaxDefaultTitleLength characters. Empty input yields
// UntitledDeck.
func DefaultTitle(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}

	runes := []rune(strings.TrimSpace(line))
	if len(runes) > MaxDefaultTitleLength {
		runes = runes[:MaxDefaultTitleLength]
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return UntitledDeck
	}
	return title
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return []Card{}
	}
	out := make([]Card, len(cards))
	for i := range cards {
		out[i] = cards[i].Clone()
	}
	return out
}
