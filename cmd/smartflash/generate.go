package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/service"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/spf13/cobra"
)

func (c *cli) generateCmd() *cobra.Command {
	var (
		file  string
		title string
	)
	cmd := &cobra.Command{
		Use:   "generate [text...]",
		Short: "Extract flashcards from text into a new deck",
		Long: `Send text to Gemini and store the extracted flashcards as a new deck.
Text comes from the arguments, from --file, or from stdin when neither is
given. The title defaults to the first line of the text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := generationText(cmd, args, file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return service.NewGenerationError(generation.ErrEmptyText)
			}

			return c.withApp(cmd.Context(), false, func(app *application) error {
				mutedStyle.Fprintln(cmd.ErrOrStderr(), "Generating flashcards...")
				deck, err := app.generate.Generate(cmd.Context(), text, title)
				if err != nil && !store.IsPersistenceError(err) {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created deck %s with %d cards\n", titleStyle.Sprint(deck.Title), len(deck.Cards))
				mutedStyle.Fprintf(out, "id %s\n", deck.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read text from file (- for stdin)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "deck title")
	return cmd
}

// generationText picks the input text: arguments first, then --file, then stdin.
func generationText(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		if file != "" {
			return "", errors.New("give text as arguments or with --file, not both")
		}
		return strings.Join(args, " "), nil
	}
	if file == "" {
		file = "-"
	}
	data, err := readInput(cmd, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readInput reads a whole file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
