package review

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/events"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	_, err := NewManager(nil, 0, nil)
	assert.Error(t, err)

	f := newFixture(t)
	assert.Equal(t, DefaultSessionTTL, f.manager.ttl)
}

func TestManager_OpenGetClose(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()

	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.manager.Len())

	got, err := f.manager.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = f.manager.Open(ctx, "missing", domain.FilterAll, false)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	require.NoError(t, f.manager.Close(s.ID()))
	_, err = f.manager.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.manager.Close(s.ID()), ErrSessionNotFound)
}

func TestManager_SessionsExpire(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	decks, err := store.NewDeckStore(store.NewMemorySlot(), log)
	require.NoError(t, err)
	deck, err := decks.CreateDeck(context.Background(), "d", nil)
	require.NoError(t, err)

	manager, err := NewManager(decks, 20*time.Millisecond, log)
	require.NoError(t, err)
	s, err := manager.Open(context.Background(), deck.ID, domain.FilterAll, false)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = manager.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_GetExtendsLifetime(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	decks, err := store.NewDeckStore(store.NewMemorySlot(), log)
	require.NoError(t, err)
	deck, err := decks.CreateDeck(context.Background(), "d", nil)
	require.NoError(t, err)

	manager, err := NewManager(decks, 200*time.Millisecond, log)
	require.NoError(t, err)
	s, err := manager.Open(context.Background(), deck.ID, domain.FilterAll, false)
	require.NoError(t, err)

	for range 4 {
		time.Sleep(100 * time.Millisecond)
		_, err := manager.Get(s.ID())
		require.NoError(t, err)
	}
}

func TestManager_ToggleCurrentDoneUnderUndoneReclamps(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	ctx := context.Background()

	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterUndone, false)
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, "C", currentID(t, s))

	card, err := f.manager.ToggleCurrentDone(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, "C", card.ID)
	assert.True(t, card.IsDone)

	v := s.View()
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "B", v.Card.ID)
	assert.Equal(t, 1, v.Done)
	assert.Equal(t, 3, v.Total)

	deck, err := f.decks.GetDeck(f.deck.ID)
	require.NoError(t, err)
	undone := domain.FilterCards(deck.Cards, domain.FilterUndone)
	require.Len(t, undone, 2)
	assert.Equal(t, "A", undone[0].ID)
	assert.Equal(t, "B", undone[1].ID)
}

func TestManager_DoubleToggleRestores(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()

	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)

	_, err = f.manager.ToggleCurrentDone(ctx, s.ID())
	require.NoError(t, err)
	card, err := f.manager.ToggleCurrentDone(ctx, s.ID())
	require.NoError(t, err)
	assert.False(t, card.IsDone)
	assert.Equal(t, 0, s.View().Done)
}

func TestManager_ToggleOnEmptyView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)

	_, err = f.manager.ToggleCurrentDone(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNoCurrentCard)

	_, err = f.manager.ToggleCurrentDone(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_ShuffleRewindsSessions(t *testing.T) {
	f := newFixture(t, "A", "B", "C", "D")
	ctx := context.Background()

	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Flip())

	shuffled, err := f.decks.ShuffleDeck(ctx, f.deck.ID)
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, 0, v.Index)
	assert.False(t, v.Revealed)
	assert.Equal(t, shuffled.Cards[0].ID, v.Card.ID)
}

func TestManager_OpenWithShuffle(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(log)
	// reverse order: each swap picks index 0
	decks, err := store.NewDeckStore(store.NewMemorySlot(), log,
		store.WithEventEmitter(emitter),
		store.WithRandom(func(int) int { return 0 }))
	require.NoError(t, err)
	manager, err := NewManager(decks, time.Minute, log)
	require.NoError(t, err)
	emitter.RegisterHandler(manager)

	deck, err := decks.CreateDeck(context.Background(), "d", []domain.Card{
		{ID: "A", Term: "a", Definition: "a"},
		{ID: "B", Term: "b", Definition: "b"},
		{ID: "C", Term: "c", Definition: "c"},
	})
	require.NoError(t, err)

	s, err := manager.Open(context.Background(), deck.ID, domain.FilterAll, true)
	require.NoError(t, err)

	stored, err := decks.GetDeck(deck.ID)
	require.NoError(t, err)
	assert.NotEqual(t, []string{"A", "B", "C"}, []string{stored.Cards[0].ID, stored.Cards[1].ID, stored.Cards[2].ID})
	assert.Equal(t, stored.Cards[0].ID, currentID(t, s))
	assert.Equal(t, 0, s.View().Index)
}

func TestManager_DeleteDeckClosesSessions(t *testing.T) {
	f := newFixture(t, "A")
	ctx := context.Background()

	other, err := f.decks.CreateDeck(ctx, "other", []domain.Card{{ID: "X", Term: "x", Definition: "y"}})
	require.NoError(t, err)

	s1, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)
	s2, err := f.manager.Open(ctx, other.ID, domain.FilterAll, false)
	require.NoError(t, err)

	require.NoError(t, f.decks.DeleteDeck(ctx, f.deck.ID))

	assert.True(t, s1.Closed())
	assert.False(t, s2.Closed())

	_, err = f.manager.ToggleCurrentDone(ctx, s1.ID())
	assert.ErrorIs(t, err, ErrSessionClosed)

	got, err := f.manager.Get(s1.ID())
	require.NoError(t, err, "closed sessions stay readable")
	assert.True(t, got.View().Closed)
}

func TestManager_HandleEventIgnoresOtherDecks(t *testing.T) {
	f := newFixture(t, "A", "B")
	ctx := context.Background()
	s, err := f.manager.Open(ctx, f.deck.ID, domain.FilterAll, false)
	require.NoError(t, err)
	require.NoError(t, s.Next())

	require.NoError(t, f.manager.HandleEvent(ctx, events.NewDeckEvent(events.DeckShuffled, "another", "")))
	require.NoError(t, f.manager.HandleEvent(ctx, nil))
	assert.Equal(t, 1, s.View().Index)
}

func TestManager_ToggleCurrentDoneAfterDeleteWithoutEvents(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	ctx := context.Background()
	decks, err := store.NewDeckStore(store.NewMemorySlot(), log)
	require.NoError(t, err)
	deck, err := decks.CreateDeck(ctx, "d", []domain.Card{{ID: "A", Term: "A", Definition: "a"}})
	require.NoError(t, err)

	manager, err := NewManager(decks, 0, log)
	require.NoError(t, err)
	s, err := manager.Open(ctx, deck.ID, domain.FilterAll, false)
	require.NoError(t, err)

	require.NoError(t, decks.DeleteDeck(ctx, deck.ID))

	assert.True(t, s.Closed())
	_, err = manager.ToggleCurrentDone(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
