// Package service contains the application use cases that sit between the
// presentation adapters (HTTP API, CLI) and the deck store.
//
// GenerationService turns pasted text into a new deck through an
// Extractor. Only one extraction may be in flight at a time; while it runs
// the service is busy and further generation requests are refused with
// ErrBusy. Every other operation keeps working against the store.
//
// The review sub-package holds the transient study sessions.
package service
