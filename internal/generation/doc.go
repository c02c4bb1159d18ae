// Package generation defines the boundary between the application and the
// AI service that turns free-form text into flashcards.
//
// An Extractor takes raw text and returns proto-cards (term, definition and
// optional context). It is slow and fallible; callers treat any error as a
// single user-facing failure and never retry on their own. The Gemini-backed
// implementation lives in internal/platform/gemini.
package generation
