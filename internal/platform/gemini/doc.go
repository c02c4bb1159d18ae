// Package gemini provides an implementation of the generation.Extractor
// interface that uses Google's Gemini API to pull flashcards out of free text.
//
// This package is an infrastructure adapter, connecting the application's
// core to Google's external Gemini AI service without exposing the details
// of that service to the rest of the application.
//
// Key components:
//
// 1. Extractor:
//   - Implements the generation.Extractor interface
//   - Sends a prompt with a JSON response schema (an array of term,
//     definition and optional context objects)
//   - Parses the structured reply into proto-cards
//
// 2. Prompt Management:
//   - Uses a built-in prompt unless a template file is configured
//   - Substitutes the input text into the template
//
// 3. Error Handling:
//   - Categorizes API failures into generation errors (blocked content,
//     invalid response, transient failure, invalid configuration)
//   - Optionally retries transient failures with exponential backoff; the
//     default configuration makes exactly one attempt
package gemini
