package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardTermEmpty is returned when a card's term is blank.
	ErrCardTermEmpty = errors.New("card term cannot be empty")

	// ErrCardDefinitionEmpty is returned when a card's definition is blank.
	ErrCardDefinitionEmpty = errors.New("card definition cannot be empty")
)

// Card is a single flashcard: a term on the front, its definition on the back,
// and an optional usage example or note.
//
// IDs are opaque strings. New cards get a UUIDv4, but decks imported from
// older data may carry timestamp-style IDs and those are kept untouched.
type Card struct {
	ID         string
	Term       string
	Definition string
	Context    *string
	IsDone     bool
}

// NewCard creates a Card with a freshly generated ID.
// Term and definition are trimmed; a blank context becomes absent.
// Returns an error if validation fails.
func NewCard(term, definition string, context *string) (*Card, error) {
	card := &Card{
		ID:         uuid.NewString(),
		Term:       strings.TrimSpace(term),
		Definition: strings.TrimSpace(definition),
		Context:    NormalizeContext(context),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "must not be empty", ErrCardIDEmpty)
	}

	if strings.TrimSpace(c.Term) == "" {
		return NewValidationError("term", "must not be empty", ErrCardTermEmpty)
	}

	if strings.TrimSpace(c.Definition) == "" {
		return NewValidationError("definition", "must not be empty", ErrCardDefinitionEmpty)
	}

	return nil
}

// ContextText returns the context, or "" when the card has none.
func (c Card) ContextText() string {
	if c.Context == nil {
		return ""
	}
	return *c.Context
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Context != nil {
		v := *c.Context
		out.Context = &v
	}
	return out
}

// CardPatch holds the editable fields of a card. Nil fields are left untouched.
// To clear a context, set Context to a pointer to an empty string.
type CardPatch struct {
	Term       *string
	Definition *string
	Context    *string
}

// Apply returns a copy of c with the patch applied and normalized.
// The card ID and done flag are never changed by a patch.
func (p CardPatch) Apply(c Card) (Card, error) {
	out := c.Clone()

	if p.Term != nil {
		out.Term = strings.TrimSpace(*p.Term)
	}
	if p.Definition != nil {
		out.Definition = strings.TrimSpace(*p.Definition)
	}
	if p.Context != nil {
		out.Context = NormalizeContext(p.Context)
	}

	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

// NormalizeContext trims a context value and maps blank values to nil.
func NormalizeContext(context *string) *string {
	if context == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*context)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Normalized returns a copy with term and definition trimmed and a blank
// context removed.
func (c Card) Normalized() Card {
	out := c.Clone()
	out.Term = strings.TrimSpace(out.Term)
	out.Definition = strings.TrimSpace(out.Definition)
	out.Context = NormalizeContext(out.Context)
	return out
}
