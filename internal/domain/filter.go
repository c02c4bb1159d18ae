package domain

import (
	"fmt"
	"strings"
)

// Filter selects which cards of a deck a review session walks through.
type Filter string

const (
	// FilterAll shows every card in deck order.
	FilterAll Filter = "all"

	// FilterUndone shows only cards not yet marked done, in deck order.
	FilterUndone Filter = "undone"
)

// ParseFilter converts a filter name into a Filter. An empty name means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUndone:
		return FilterUndone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// Valid reports whether f is a known filter.
func (f Filter) Valid() bool {
	return f == FilterAll || f == FilterUndone
}

// FilterCards returns the cards visible under filter, preserving order.
// The result is always a new slice.
func FilterCards(cards []Card, filter Filter) []Card {
	out := make([]Card, 0, len(cards))
	for i := range cards {
		if filter == FilterUndone && cards[i].IsDone {
			continue
		}
		out = append(out, cards[i].Clone())
	}
	return out
}
