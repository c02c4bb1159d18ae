// Package events provides types and interfaces for reacting to deck changes.
//
// The deck store emits a DeckEvent after every successful mutation. Components
// that hold state derived from a deck, such as open review sessions, register
// an EventHandler so they can re-clamp or tear down that state without the
// store knowing about them.
//
// The primary components are:
//   - DeckEvent: identifies the deck (and card) that changed and how
//   - EventHandler: interface for components that can handle events
//   - EventEmitter: interface for components that can emit events
package events
