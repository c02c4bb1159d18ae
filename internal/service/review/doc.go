// Package review implements flip-card study sessions over a deck.
//
// A Session is transient. It holds a weak reference to a deck by id, a
// filter and a cursor; the filtered card list is recomputed from the live
// deck on every read, so edits made through the store are always visible.
// The Manager keeps open sessions addressable by id and keeps them in step
// with deck changes by listening to store events.
package review
