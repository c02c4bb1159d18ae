package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	cards := []Card{
		{ID: "a", Term: "t1", Definition: "d1"},
		{ID: "b", Term: "t2", Definition: "d2"},
	}

	deck, err := NewDeck("  Biology  ", cards, now)
	require.NoError(t, err)
	assert.NotEmpty(t, deck.ID)
	assert.Equal(t, "Biology", deck.Title)
	assert.Equal(t, now, deck.CreatedAt)
	assert.Len(t, deck.Cards, 2)

	// The deck owns its own copy of the cards
	cards[0].Term = "mutated"
	assert.Equal(t, "t1", deck.Cards[0].Term)
}

func TestNewDeckBlankTitleGetsPlaceholder(t *testing.T) {
	t.Parallel()

	deck, err := NewDeck("", nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, UntitledDeck, deck.Title)
	assert.NotNil(t, deck.Cards)
	assert.Empty(t, deck.Cards)
}

func TestNewDeckRejectsDuplicateCardIDs(t *testing.T) {
	t.Parallel()

	_, err := NewDeck("x", []Card{
		{ID: "same", Term: "a", Definition: "b"},
		{ID: "same", Term: "c", Definition: "d"},
	}, time.Now())
	assert.ErrorIs(t, err, ErrDuplicateCardID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeckHelpers(t *testing.T) {
	t.Parallel()

	d := Deck{ID: "d", Title: "t", Cards: []Card{
		{ID: "a", Term: "1", Definition: "1", IsDone: true},
		{ID: "b", Term: "2", Definition: "2"},
		{ID: "c", Term: "3", Definition: "3", IsDone: true},
	}}

	assert.Equal(t, 1, d.CardIndex("b"))
	assert.Equal(t, -1, d.CardIndex("missing"))
	assert.Equal(t, 2, d.DoneCount())

	clone := d.Clone()
	clone.Cards[0].IsDone = false
	assert.True(t, d.Cards[0].IsDone)
}

func TestDefaultTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", UntitledDeck},
		{"whitespace only", "  \n\t ", UntitledDeck},
		{"first line", "Cell Biology\nmitochondria - powerhouse", "Cell Biology"},
		{"leading blank lines", "\n\n  Chapter 3  \nmore", "Chapter 3"},
		{"windows newline", "Verbs\r\nser - to be", "Verbs"},
		{"truncated", strings.Repeat("abcdefghij", 5), strings.Repeat("abcdefghij", 3)},
		{"multibyte runes", strings.Repeat("é", 40), strings.Repeat("é", 30)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultTitle(tc.text))
		})
	}
}
