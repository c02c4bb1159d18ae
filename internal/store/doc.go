// Package store holds the deck collection and its persistence lifecycle.
//
// DeckStore is the single owner of all decks. It is hydrated once from a Slot
// at start-up and writes the whole collection back to the Slot after every
// mutation. Slot implementations live under internal/platform and only move
// opaque bytes; the serialized layout is defined by the codec in this package.
package store
