package gemini

import "google.golang.org/genai"

// promptData represents the data passed to the prompt template
type promptData struct {
	Text string
}

// CardSchema represents a single flashcard in the API response
type CardSchema struct {
	// Term is the word or concept on the front of the card
	Term string `json:"term"`

	// Definition explains the term
	Definition string `json:"definition"`

	// Context is an optional example sentence or note
	Context *string `json:"context,omitempty"`
}

// responseSchema describes the JSON reply requested from the model: an array
// of objects with a required term and definition and an optional context.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"term":       {Type: genai.TypeString},
				"definition": {Type: genai.TypeString},
				"context": {
					Type:        genai.TypeString,
					Description: "Optional context or example sentence",
				},
			},
			Required: []string{"term", "definition"},
		},
	}
}
