package generation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
)

// ProtoCard is a card as returned by an Extractor, before it has an ID.
type ProtoCard struct {
	Term       string  `json:"term"`
	Definition string  `json:"definition"`
	Context    *string `json:"context,omitempty"`
}

// Extractor defines the interface for extracting flashcards from text.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Extractor interface {
	// Extract parses text into proto-cards.
	//
	// An empty result is not an error at this level; callers decide what an
	// empty deck means. Errors wrap the sentinels in errors.go.
	Extract(ctx context.Context, text string) ([]ProtoCard, error)
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(ctx context.Context, text string) ([]ProtoCard, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, text string) ([]ProtoCard, error) {
	return f(ctx, text)
}

// ToCards turns proto-cards into new cards: text is trimmed, entries with a
// blank term or definition are dropped, each card gets a fresh ID and starts
// not done.
func ToCards(protos []ProtoCard) []domain.Card {
	cards := make([]domain.Card, 0, len(protos))
	for _, p := range protos {
		term := strings.TrimSpace(p.Term)
		definition := strings.TrimSpace(p.Definition)
		if term == "" || definition == "" {
			continue
		}
		cards = append(cards, domain.Card{
			ID:         uuid.NewString(),
			Term:       term,
			Definition: definition,
			Context:    domain.NormalizeContext(p.Context),
		})
	}
	return cards
}
