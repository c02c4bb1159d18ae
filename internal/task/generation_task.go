package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
)

// Common errors
var (
	ErrNilGenerator = errors.New("generator cannot be nil")
	ErrEmptyText    = errors.New("generation text cannot be empty")
)

// MessageNotSaved is reported on a completed task whose deck exists in
// memory but could not be written to storage.
const MessageNotSaved = "The deck was created but could not be saved."

// DeckGenerator turns raw text into a stored deck.
type DeckGenerator interface {
	GenerateDeck(ctx context.Context, text, title string) (domain.Deck, error)
}

// DeckGeneratorFunc adapts a plain function to DeckGenerator.
type DeckGeneratorFunc func(ctx context.Context, text, title string) (domain.Deck, error)

// GenerateDeck calls f.
func (f DeckGeneratorFunc) GenerateDeck(ctx context.Context, text, title string) (domain.Deck, error) {
	return f(ctx, text, title)
}

// generationPayload represents the serialized data carried by the task
type generationPayload struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// GenerationResult is a point-in-time view of a GenerationTask.
type GenerationResult struct {
	TaskID    uuid.UUID  `json:"taskId"`
	Status    TaskStatus `json:"status"`
	DeckID    string     `json:"deckId,omitempty"`
	CardCount int        `json:"cardCount"`
	Message   string     `json:"message,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// GenerationTask implements Task for creating a deck from pasted text.
// The text is kept on the task so a failed generation never loses it.
type GenerationTask struct {
	id        uuid.UUID
	text      string
	title     string
	generator DeckGenerator
	onDone    func()
	now       func() time.Time

	mu        sync.RWMutex
	status    TaskStatus
	deckID    string
	cardCount int
	message   string
	err       error
	createdAt time.Time
	updatedAt time.Time
}

// NewGenerationTask creates a pending generation task. onDone, when non-nil,
// runs exactly once after Execute finishes, whatever the outcome.
func NewGenerationTask(text, title string, generator DeckGenerator, onDone func()) (*GenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	now := time.Now().UTC()
	return &GenerationTask{
		id:        uuid.New(),
		text:      text,
		title:     title,
		generator: generator,
		onDone:    onDone,
		now:       func() time.Time { return time.Now().UTC() },
		status:    TaskStatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the task's unique identifier
func (t *GenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *GenerationTask) Type() string {
	return TaskTypeGeneration
}

// Text returns the source text the task was created with.
func (t *GenerationTask) Text() string {
	return t.text
}

// Payload returns the task data as a byte slice
func (t *GenerationTask) Payload() []byte {
	data, err := json.Marshal(generationPayload{Text: t.text, Title: t.title})
	if err != nil {
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *GenerationTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the error the task failed with, if any.
func (t *GenerationTask) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Result returns a snapshot of the task's progress.
func (t *GenerationTask) Result() GenerationResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return GenerationResult{
		TaskID:    t.id,
		Status:    t.status,
		DeckID:    t.deckID,
		CardCount: t.cardCount,
		Message:   t.message,
		CreatedAt: t.createdAt,
		UpdatedAt: t.updatedAt,
	}
}

// Fail marks a task that never reached a worker as failed and runs onDone.
func (t *GenerationTask) Fail(err error) {
	t.finish(domain.Deck{}, err)
}

// Execute runs the generator. A failure is recorded on the task together
// with its user-facing message and also returned to the worker pool.
// A task that already finished is not run again.
func (t *GenerationTask) Execute(ctx context.Context) (err error) {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	if !t.start() {
		log.Warn("generation task already started", "status", t.Status())
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
			t.finish(domain.Deck{}, err)
		}
	}()
	log.Info("starting deck generation", "text_length", len(t.text))

	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("task cancelled by context: %w", err)
		t.finish(domain.Deck{}, err)
		return err
	}

	deck, err := t.generator.GenerateDeck(ctx, t.text, t.title)
	t.finish(deck, err)

	switch {
	case err == nil:
		log.Info("deck generated", "deck_id", deck.ID, "card_count", len(deck.Cards))
		return nil
	case deck.ID != "":
		log.Warn("deck generated but not persisted", "deck_id", deck.ID, "error", err)
		return nil
	default:
		return fmt.Errorf("failed to generate deck: %w", err)
	}
}

// start moves a pending task to processing. It reports false for a task
// that is already running or finished.
func (t *GenerationTask) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != TaskStatusPending {
		return false
	}
	t.status = TaskStatusProcessing
	t.updatedAt = t.now()
	return true
}

func (t *GenerationTask) finish(deck domain.Deck, err error) {
	t.mu.Lock()
	if t.status.Done() {
		t.mu.Unlock()
		return
	}
	t.updatedAt = t.now()
	t.err = err
	switch {
	case err == nil:
		t.status = TaskStatusCompleted
		t.deckID = deck.ID
		t.cardCount = len(deck.Cards)
	case deck.ID != "" && errors.Is(err, store.ErrPersistence):
		t.status = TaskStatusCompleted
		t.deckID = deck.ID
		t.cardCount = len(deck.Cards)
		t.message = MessageNotSaved
	default:
		t.status = TaskStatusFailed
		t.message = generation.UserMessage(err)
	}
	onDone := t.onDone
	t.mu.Unlock()

	if onDone != nil {
		onDone()
	}
}
