package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/events"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGenerationService is a testify mock of GenerationService.
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, text, title string) (domain.Deck, error) {
	args := m.Called(ctx, text, title)
	return args.Get(0).(domain.Deck), args.Error(1)
}

func (m *MockGenerationService) Submit(ctx context.Context, text, title string) (task.GenerationResult, error) {
	args := m.Called(ctx, text, title)
	return args.Get(0).(task.GenerationResult), args.Error(1)
}

func (m *MockGenerationService) Task(id uuid.UUID) (task.GenerationResult, error) {
	args := m.Called(id)
	return args.Get(0).(task.GenerationResult), args.Error(1)
}

// testEnv is a router backed by a real in-memory deck store and session
// manager, with a mocked generation service.
type testEnv struct {
	router   http.Handler
	slot     *store.MemorySlot
	decks    *store.DeckStore
	sessions *review.Manager
	gen      *MockGenerationService
	logs     *logger.TestLogBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, buf := logger.NewTestLogger(t)

	slot := store.NewMemorySlot()
	emitter := events.NewInMemoryEventEmitter(log)
	decks, err := store.NewDeckStore(slot, log, store.WithEventEmitter(emitter))
	require.NoError(t, err)

	sessions, err := review.NewManager(decks, 0, log)
	require.NoError(t, err)
	emitter.RegisterHandler(sessions)

	gen := &MockGenerationService{}
	t.Cleanup(func() { gen.AssertExpectations(t) })

	return &testEnv{
		router: NewRouter(RouterDeps{
			Decks:      decks,
			Generation: gen,
			Sessions:   sessions,
			Logger:     log,
		}),
		slot:     slot,
		decks:    decks,
		sessions: sessions,
		gen:      gen,
		logs:     buf,
	}
}

// createDeck adds a deck whose card ids equal their terms.
func (e *testEnv) createDeck(t *testing.T, title string, terms ...string) domain.Deck {
	t.Helper()
	cards := make([]domain.Card, 0, len(terms))
	for _, term := range terms {
		cards = append(cards, domain.Card{ID: term, Term: term, Definition: "definition of " + term})
	}
	deck, err := e.decks.CreateDeck(context.Background(), title, cards)
	require.NoError(t, err)
	return deck
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}
