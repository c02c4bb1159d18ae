package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationTask(t *testing.T) {
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		return domain.Deck{}, nil
	})

	_, err := NewGenerationTask("text", "", nil, nil)
	assert.ErrorIs(t, err, ErrNilGenerator)

	_, err = NewGenerationTask("", "", gen, nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	task, err := NewGenerationTask("Go: a language", "Go", gen, nil)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeGeneration, task.Type())
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Equal(t, "Go: a language", task.Text())

	var payload generationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "Go: a language", payload.Text)
	assert.Equal(t, "Go", payload.Title)
}

func TestGenerationTask_Execute(t *testing.T) {
	deck := domain.Deck{
		ID:    "deck-1",
		Title: "Go",
		Cards: []domain.Card{{ID: "c1", Term: "goroutine", Definition: "lightweight thread"}},
	}

	tests := []struct {
		name        string
		deck        domain.Deck
		err         error
		wantStatus  TaskStatus
		wantDeckID  string
		wantMessage string
		wantErr     bool
	}{
		{
			name:       "success",
			deck:       deck,
			wantStatus: TaskStatusCompleted,
			wantDeckID: "deck-1",
		},
		{
			name:        "no cards",
			err:         generation.ErrNoCardsExtracted,
			wantStatus:  TaskStatusFailed,
			wantMessage: "No flashcards could be extracted. Please check your text format.",
			wantErr:     true,
		},
		{
			name:        "extractor unavailable",
			err:         fmt.Errorf("calling model: %w", generation.ErrTransientFailure),
			wantStatus:  TaskStatusFailed,
			wantMessage: "The AI service is temporarily unavailable. Please try again.",
			wantErr:     true,
		},
		{
			name:        "deck kept in memory",
			deck:        deck,
			err:         store.NewStoreError("deck", "create", "write failed", store.ErrPersistence),
			wantStatus:  TaskStatusCompleted,
			wantDeckID:  "deck-1",
			wantMessage: MessageNotSaved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doneCalls := 0
			gen := DeckGeneratorFunc(func(_ context.Context, text, title string) (domain.Deck, error) {
				assert.Equal(t, "source", text)
				assert.Equal(t, "title", title)
				return tt.deck, tt.err
			})
			task, err := NewGenerationTask("source", "title", gen, func() { doneCalls++ })
			require.NoError(t, err)

			err = task.Execute(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			result := task.Result()
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantDeckID, result.DeckID)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Equal(t, task.ID(), result.TaskID)
			assert.Equal(t, 1, doneCalls)
		})
	}
}

func TestGenerationTask_CancelledContext(t *testing.T) {
	called := false
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		called = true
		return domain.Deck{}, nil
	})
	task, err := NewGenerationTask("text", "", gen, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = task.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.ErrorIs(t, task.Err(), context.Canceled)
}

func TestGenerationTask_FailRunsOnDoneOnce(t *testing.T) {
	doneCalls, genCalls := 0, 0
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		genCalls++
		return domain.Deck{ID: "d"}, nil
	})
	task, err := NewGenerationTask("text", "", gen, func() { doneCalls++ })
	require.NoError(t, err)

	task.Fail(ErrQueueFull)
	task.Fail(errors.New("again"))
	_ = task.Execute(context.Background())

	assert.Equal(t, 1, doneCalls)
	assert.Zero(t, genCalls)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.ErrorIs(t, task.Err(), ErrQueueFull)
}

func TestGenerationTask_ExecuteRunsOnce(t *testing.T) {
	doneCalls, genCalls := 0, 0
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		genCalls++
		return domain.Deck{ID: "d"}, nil
	})
	task, err := NewGenerationTask("text", "", gen, func() { doneCalls++ })
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))
	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t, 1, genCalls)
	assert.Equal(t, 1, doneCalls)
	assert.Equal(t, TaskStatusCompleted, task.Status())
}

func TestGenerationTask_PanicFailsTask(t *testing.T) {
	doneCalls := 0
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		panic("extractor exploded")
	})
	task, err := NewGenerationTask("text", "", gen, func() { doneCalls++ })
	require.NoError(t, err)

	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extractor exploded")

	result := task.Result()
	assert.Equal(t, TaskStatusFailed, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 1, doneCalls)
}

func TestGenerationTask_ThroughWorkerPool(t *testing.T) {
	log, _ := newQuietLogger(t)
	queue := NewTaskQueue(1, log)
	pool := NewWorkerPool(queue, DefaultWorkerPoolConfig(), log)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	gen := DeckGeneratorFunc(func(context.Context, string, string) (domain.Deck, error) {
		return domain.Deck{ID: "deck-9", Cards: make([]domain.Card, 2)}, nil
	})
	task, err := NewGenerationTask("text", "", gen, func() { close(done) })
	require.NoError(t, err)
	require.NoError(t, queue.Enqueue(task))

	waitFor(t, done, "generation task")
	result := task.Result()
	assert.Equal(t, TaskStatusCompleted, result.Status)
	assert.Equal(t, 2, result.CardCount)
}
