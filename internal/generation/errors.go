package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrExtractionFailed is returned when extraction fails for any general reason
	ErrExtractionFailed = errors.New("failed to extract flashcards from text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during extraction")

	// ErrInvalidConfig is returned when the extractor configuration is invalid
	ErrInvalidConfig = errors.New("invalid extractor configuration")

	// ErrEmptyText is returned when the input text is blank
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNoCardsExtracted is returned when extraction succeeded but produced no usable cards
	ErrNoCardsExtracted = errors.New("no flashcards could be extracted")
)

// UserMessage turns an extraction error into the single sentence shown to
// the user. It never exposes the underlying error text.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyText):
		return "Please enter some text to generate flashcards."
	case errors.Is(err, ErrNoCardsExtracted):
		return "No flashcards could be extracted. Please check your text format."
	case errors.Is(err, ErrContentBlocked):
		return "The text was rejected by the AI service's safety filters."
	case errors.Is(err, ErrTransientFailure):
		return "The AI service is temporarily unavailable. Please try again."
	case errors.Is(err, ErrInvalidConfig):
		return "The AI service is not configured. Set a Gemini API key and try again."
	default:
		return "Something went wrong while generating cards."
	}
}
