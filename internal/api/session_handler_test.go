package api

import (
	"net/http"
	"testing"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) openSession(t *testing.T, req OpenSessionRequest) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, "/api/sessions/"+resp.SessionID, w.Header().Get("Location"))
	return resp
}

func (e *testEnv) sessionAction(t *testing.T, id, action string) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions/"+id+"/"+action, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[SessionResponse](t, w)
}

func currentTerm(resp SessionResponse) string {
	if resp.Card == nil {
		return ""
	}
	return resp.Card.Term
}

func TestSessionHandler_Walkthrough(t *testing.T) {
	env := newTestEnv(t)
	deck := env.createDeck(t, "d1", "A", "B", "C")

	s := env.openSession(t, OpenSessionRequest{DeckID: deck.ID})
	assert.Equal(t, domain.FilterAll, s.Filter)
	assert.Equal(t, "A", currentTerm(s))
	assert.Equal(t, 1, s.Position)
	assert.Equal(t, 3, s.Count)
	assert.False(t, s.Revealed)

	s = env.sessionAction(t, s.SessionID, "flip")
	assert.True(t, s.Revealed)

	s = env.sessionAction(t, s.SessionID, "next")
	assert.Equal(t, "B", currentTerm(s))
	assert.False(t, s.Revealed, "moving hides the answer")

	// mark B done, then switch to undone: A and C remain
	s = env.sessionAction(t, s.SessionID, "done")
	assert.Equal(t, 1, s.Done)

	w := env.do(t, http.MethodPut, "/api/sessions/"+s.SessionID+"/filter", SetFilterRequest{Filter: "undone"})
	require.Equal(t, http.StatusOK, w.Code)
	s = decodeBody[SessionResponse](t, w)
	assert.Equal(t, domain.FilterUndone, s.Filter)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, "A", currentTerm(s))

	s = env.sessionAction(t, s.SessionID, "next")
	assert.Equal(t, "C", currentTerm(s))
	assert.True(t, s.AtEnd)

	s = env.sessionAction(t, s.SessionID, "next")
	assert.Equal(t, "C", currentTerm(s), "next saturates at the end")

	s = env.sessionAction(t, s.SessionID, "prev")
	assert.Equal(t, "A", currentTerm(s))
	s = env.sessionAction(t, s.SessionID, "prev")
	assert.Equal(t, "A", currentTerm(s), "prev saturates at the start")

	s = env.sessionAction(t, s.SessionID, "next")
	s = env.sessionAction(t, s.SessionID, "restart")
	assert.Equal(t, 0, s.Index)

	// marking the current card done under undone drops it from the view
	s = env.sessionAction(t, s.SessionID, "done")
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, "C", currentTerm(s))

	s = env.sessionAction(t, s.SessionID, "done")
	assert.True(t, s.AllDone)
	assert.Nil(t, s.Card)

	w = env.do(t, http.MethodPost, "/api/sessions/"+s.SessionID+"/done", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "nothing to mark")
	w = env.do(t, http.MethodPost, "/api/sessions/"+s.SessionID+"/flip", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionHandler_OpenSession(t *testing.T) {
	env := newTestEnv(t)
	deck := env.createDeck(t, "d1", "A", "B", "C", "D")

	t.Run("unknown deck", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/sessions", OpenSessionRequest{DeckID: "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad filter", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/sessions", OpenSessionRequest{DeckID: deck.ID, Filter: "later"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing deck id", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/sessions", OpenSessionRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid deckId")
	})

	t.Run("shuffle keeps the same cards", func(t *testing.T) {
		s := env.openSession(t, OpenSessionRequest{DeckID: deck.ID, Shuffle: true})
		assert.Equal(t, 0, s.Index)
		assert.Equal(t, 4, s.Count)
		assert.Contains(t, []string{"A", "B", "C", "D"}, currentTerm(s))
	})
}

func TestSessionHandler_DeckChanges(t *testing.T) {
	env := newTestEnv(t)
	deck := env.createDeck(t, "d1", "A", "B", "C")
	s := env.openSession(t, OpenSessionRequest{DeckID: deck.ID})
	s = env.sessionAction(t, s.SessionID, "next")
	s = env.sessionAction(t, s.SessionID, "next")
	require.Equal(t, "C", currentTerm(s))

	// deleting the current card at the end clamps the cursor
	w := env.do(t, http.MethodDelete, "/api/decks/"+deck.ID+"/cards/C", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/sessions/"+s.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	s = decodeBody[SessionResponse](t, w)
	assert.Equal(t, "B", currentTerm(s))
	assert.Equal(t, 2, s.Count)

	// renames show up on the next read
	w = env.do(t, http.MethodPatch, "/api/decks/"+deck.ID, RenameDeckRequest{Title: "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/sessions/"+s.SessionID, nil)
	assert.Equal(t, "renamed", decodeBody[SessionResponse](t, w).DeckTitle)

	// deleting the deck closes the session
	w = env.do(t, http.MethodDelete, "/api/decks/"+deck.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/api/sessions/"+s.SessionID+"/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionHandler_CloseSession(t *testing.T) {
	env := newTestEnv(t)
	deck := env.createDeck(t, "d1", "A")
	s := env.openSession(t, OpenSessionRequest{DeckID: deck.ID})

	w := env.do(t, http.MethodDelete, "/api/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/sessions/"+s.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
