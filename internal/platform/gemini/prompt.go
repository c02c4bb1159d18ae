package gemini

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/smartflash/internal/generation"
)

// DefaultPrompt is used when no prompt template file is configured.
const DefaultPrompt = `Parse the following text and extract flashcards. Each flashcard should have a 'term' and a 'definition'. If there is extra context or examples, include them in the 'context' field.

Input Text:
{{.Text}}`

// loadPromptTemplate parses the template at path, or DefaultPrompt when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := DefaultPrompt
	name := "default"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(data)
		name = path
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, text string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Text: text}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
