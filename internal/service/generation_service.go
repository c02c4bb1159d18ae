package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
)

// DeckCreator is the part of the deck store the generation path writes to.
type DeckCreator interface {
	CreateDeck(ctx context.Context, title string, cards []domain.Card) (domain.Deck, error)
}

// TaskEnqueuer accepts background tasks.
type TaskEnqueuer interface {
	Enqueue(t task.Task) error
}

// GenerationOption configures a GenerationService.
type GenerationOption func(*GenerationService)

// WithTaskQueue enables Submit. Tasks are pushed onto queue and kept
// pollable in registry.
func WithTaskQueue(queue TaskEnqueuer, registry *task.Registry) GenerationOption {
	return func(s *GenerationService) {
		s.queue = queue
		s.registry = registry
	}
}

// GenerationService creates decks from raw text through an Extractor.
type GenerationService struct {
	extractor generation.Extractor
	decks     DeckCreator
	queue     TaskEnqueuer
	registry  *task.Registry
	busy      atomic.Bool
	logger    *slog.Logger
}

// NewGenerationService creates a GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	extractor generation.Extractor,
	decks DeckCreator,
	log *slog.Logger,
	opts ...GenerationOption,
) (*GenerationService, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if decks == nil {
		return nil, fmt.Errorf("deck creator cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &GenerationService{
		extractor: extractor,
		decks:     decks,
		logger:    log.With("component", "generation_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue != nil && s.registry == nil {
		s.registry = task.NewRegistry(0)
	}
	return s, nil
}

// Busy reports whether an extraction is in flight.
func (s *GenerationService) Busy() bool {
	return s.busy.Load()
}

func (s *GenerationService) claim() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *GenerationService) release() {
	s.busy.Store(false)
}

// Generate extracts cards from text and stores them as a new deck,
// blocking until the extractor returns. A blank title falls back to the
// first line of text.
//
// Failures are returned as *GenerationError. When the deck was created but
// could not be persisted the deck is returned together with the error.
func (s *GenerationService) Generate(ctx context.Context, text, title string) (domain.Deck, error) {
	if !s.claim() {
		return domain.Deck{}, ErrBusy
	}
	defer s.release()

	deck, err := s.generateDeck(ctx, text, title)
	return deck, NewGenerationError(err)
}

// Submit validates text and queues a background generation. The service
// stays busy until the task finishes.
func (s *GenerationService) Submit(ctx context.Context, text, title string) (task.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.queue == nil {
		return task.GenerationResult{}, ErrAsyncDisabled
	}
	if strings.TrimSpace(text) == "" {
		return task.GenerationResult{}, NewGenerationError(generation.ErrEmptyText)
	}
	if !s.claim() {
		return task.GenerationResult{}, ErrBusy
	}

	t, err := task.NewGenerationTask(text, title, task.DeckGeneratorFunc(s.generateDeck), s.release)
	if err != nil {
		s.release()
		return task.GenerationResult{}, NewGenerationError(err)
	}
	s.registry.Put(t)

	if err := s.queue.Enqueue(t); err != nil {
		t.Fail(err)
		log.Error("failed to enqueue generation task", "task_id", t.ID(), "error", err)
		return task.GenerationResult{}, fmt.Errorf("enqueue generation: %w", err)
	}

	log.Info("generation task submitted", "task_id", t.ID(), "text_length", len(text))
	return t.Result(), nil
}

// Task returns the current state of a submitted generation.
func (s *GenerationService) Task(id uuid.UUID) (task.GenerationResult, error) {
	if s.registry == nil {
		return task.GenerationResult{}, ErrTaskNotFound
	}
	t, ok := s.registry.Get(id)
	if !ok {
		return task.GenerationResult{}, ErrTaskNotFound
	}
	return t.Result(), nil
}

// generateDeck runs one extraction without touching the busy flag.
func (s *GenerationService) generateDeck(ctx context.Context, text, title string) (domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Deck{}, generation.ErrEmptyText
	}

	log.Debug("extracting flashcards", "text_length", len(text))
	protos, err := s.extractor.Extract(ctx, text)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		return domain.Deck{}, err
	}

	cards := generation.ToCards(protos)
	if len(cards) == 0 {
		log.Warn("extraction returned no usable cards", "raw_count", len(protos))
		return domain.Deck{}, generation.ErrNoCardsExtracted
	}

	if strings.TrimSpace(title) == "" {
		title = domain.DefaultTitle(text)
	}

	deck, err := s.decks.CreateDeck(ctx, title, cards)
	if err != nil {
		if errors.Is(err, store.ErrPersistence) {
			log.Error("generated deck could not be persisted", "deck_id", deck.ID, "error", err)
		}
		return deck, err
	}

	log.Info("deck generated", "deck_id", deck.ID, "card_count", len(deck.Cards))
	return deck, nil
}
