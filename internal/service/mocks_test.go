package service

import (
	"context"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockExtractor mocks the generation.Extractor interface
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, text string) ([]generation.ProtoCard, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]generation.ProtoCard), args.Error(1)
}

// MockDeckCreator mocks the DeckCreator interface
type MockDeckCreator struct {
	mock.Mock
}

func (m *MockDeckCreator) CreateDeck(
	ctx context.Context,
	title string,
	cards []domain.Card,
) (domain.Deck, error) {
	args := m.Called(ctx, title, cards)
	return args.Get(0).(domain.Deck), args.Error(1)
}

// MockEnqueuer mocks the TaskEnqueuer interface
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(t task.Task) error {
	args := m.Called(t)
	return args.Error(0)
}
