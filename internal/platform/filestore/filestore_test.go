package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/smartflash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotReadWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "smartflash_decks.json")

	slot, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, slot.Path())

	_, err = slot.Read(ctx)
	assert.ErrorIs(t, err, store.ErrSlotEmpty)

	require.NoError(t, slot.Write(ctx, []byte("[1]")))
	require.NoError(t, slot.Write(ctx, []byte("[2]")))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[2]", string(data))

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New(" ", nil)
	assert.Error(t, err)
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "decks.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	slot, err := New(path, nil)
	require.NoError(t, err)
	decks, err := store.NewDeckStore(slot, nil)
	require.NoError(t, err)

	assert.Empty(t, decks.Load(ctx))

	// The next mutation overwrites the corrupt file with valid data
	_, err = decks.CreateDeck(ctx, "fresh", nil)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"fresh"`)
}
