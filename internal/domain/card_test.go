package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := NewCard("  mitochondria ", " powerhouse of the cell\n", strPtr("  biology 101 "))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == "" {
		t.Error("Expected a generated ID")
	}
	if card.Term != "mitochondria" {
		t.Errorf("Expected trimmed term, got %q", card.Term)
	}
	if card.Definition != "powerhouse of the cell" {
		t.Errorf("Expected trimmed definition, got %q", card.Definition)
	}
	if card.ContextText() != "biology 101" {
		t.Errorf("Expected trimmed context, got %q", card.ContextText())
	}
	if card.IsDone {
		t.Error("Expected new card to be undone")
	}

	// Blank context becomes absent
	card, err = NewCard("a", "b", strPtr("   "))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if card.Context != nil {
		t.Errorf("Expected nil context, got %q", *card.Context)
	}

	// Blank term
	_, err = NewCard("   ", "b", nil)
	if !errors.Is(err, ErrCardTermEmpty) || !errors.Is(err, ErrValidation) {
		t.Errorf("Expected term validation error, got %v", err)
	}

	// Blank definition
	_, err = NewCard("a", "", nil)
	if !errors.Is(err, ErrCardDefinitionEmpty) {
		t.Errorf("Expected definition validation error, got %v", err)
	}
}

func TestNewCardIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		card, err := NewCard("t", "d", nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if seen[card.ID] {
			t.Fatalf("Duplicate ID %s", card.ID)
		}
		seen[card.ID] = true
	}
}

func TestCardPatchApply(t *testing.T) {
	t.Parallel()

	orig := Card{ID: "c1", Term: "old", Definition: "def", Context: strPtr("ctx"), IsDone: true}

	tests := []struct {
		name    string
		patch   CardPatch
		want    Card
		wantErr error
	}{
		{
			name:  "empty patch keeps card",
			patch: CardPatch{},
			want:  orig,
		},
		{
			name:  "term is trimmed",
			patch: CardPatch{Term: strPtr("  new  ")},
			want:  Card{ID: "c1", Term: "new", Definition: "def", Context: strPtr("ctx"), IsDone: true},
		},
		{
			name:  "blank context clears it",
			patch: CardPatch{Context: strPtr(" ")},
			want:  Card{ID: "c1", Term: "old", Definition: "def", IsDone: true},
		},
		{
			name:    "blank definition is rejected",
			patch:   CardPatch{Definition: strPtr("\t")},
			want:    orig,
			wantErr: ErrCardDefinitionEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.patch.Apply(orig)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if got.ID != tc.want.ID || got.Term != tc.want.Term ||
				got.Definition != tc.want.Definition || got.IsDone != tc.want.IsDone ||
				got.ContextText() != tc.want.ContextText() || (got.Context == nil) != (tc.want.Context == nil) {
				t.Errorf("Expected %+v, got %+v", tc.want, got)
			}
		})
	}

	if orig.Term != "old" || orig.ContextText() != "ctx" {
		t.Error("Apply must not modify the original card")
	}
}

func TestCardCloneIsDeep(t *testing.T) {
	t.Parallel()

	c := Card{ID: "1", Term: "t", Definition: "d", Context: strPtr("x")}
	clone := c.Clone()
	*clone.Context = "changed"

	if c.ContextText() != "x" {
		t.Errorf("Expected original context unchanged, got %q", c.ContextText())
	}
}
