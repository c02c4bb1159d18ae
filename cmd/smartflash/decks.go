package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/spf13/cobra"
)

func (c *cli) decksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decks",
		Aliases: []string{"deck"},
		Short:   "List, inspect and manage decks",
	}
	cmd.AddCommand(
		c.decksListCmd(),
		c.decksShowCmd(),
		c.decksCreateCmd(),
		c.decksRenameCmd(),
		c.decksDeleteCmd(),
		c.decksShuffleCmd(),
		c.decksExportCmd(),
		c.decksImportCmd(),
	)
	return cmd
}

func (c *cli) decksListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				decks := app.decks.ListDecks()
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, store.ToRecords(decks))
				}
				if len(decks) == 0 {
					mutedStyle.Fprintln(out, "No decks yet. Create one with `smartflash generate`.")
					return nil
				}
				for _, deck := range decks {
					printDeckLine(out, deck)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func (c *cli) decksShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				deck, err := app.decks.GetDeck(args[0])
				if err != nil {
					return fmt.Errorf("deck %s: %w", args[0], err)
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), store.ToRecord(deck))
				}
				printDeck(cmd.OutOrStdout(), deck)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func (c *cli) decksCreateCmd() *cobra.Command {
	var (
		title string
		cards []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deck from cards given on the command line",
		Long: `Create a deck without calling the AI service. Each --card is
"term: definition" or "term: definition | context".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]domain.Card, 0, len(cards))
			for _, raw := range cards {
				card, err := parseCardFlag(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, card)
			}
			return c.withApp(cmd.Context(), false, func(app *application) error {
				deck, err := app.decks.CreateDeck(cmd.Context(), title, parsed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%s) with %d cards\n",
					titleStyle.Sprint(deck.Title), deck.ID, len(deck.Cards))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "deck title")
	cmd.Flags().StringArrayVarP(&cards, "card", "c", nil, `card as "term: definition[ | context]" (repeatable)`)
	return cmd
}

// parseCardFlag reads "term: definition" with an optional "| context".
func parseCardFlag(raw string) (domain.Card, error) {
	term, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return domain.Card{}, fmt.Errorf("card %q: expected \"term: definition\"", raw)
	}
	definition, note, hasContext := strings.Cut(rest, "|")
	card := domain.Card{Term: term, Definition: definition}
	if hasContext {
		card.Context = &note
	}
	return card.Normalized(), nil
}

func (c *cli) decksRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <deck-id> <title>",
		Short: "Rename a deck",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return c.withApp(cmd.Context(), false, func(app *application) error {
				deck, err := app.decks.RenameDeck(cmd.Context(), args[0], title)
				if err != nil {
					return fmt.Errorf("rename deck %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed deck %s to %s\n", deck.ID, titleStyle.Sprint(deck.Title))
				return nil
			})
		},
	}
}

func (c *cli) decksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				if err := app.decks.DeleteDeck(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete deck %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) decksShuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle <deck-id>",
		Short: "Shuffle the card order of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				deck, err := app.decks.ShuffleDeck(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("shuffle deck %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Shuffled %d cards in %s\n", len(deck.Cards), titleStyle.Sprint(deck.Title))
				return nil
			})
		},
	}
}

func (c *cli) decksExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [deck-id...]",
		Short: "Export decks as JSON or YAML",
		Long: `Export the given decks, or every deck when none is named. The format
defaults to the extension of --output, then to JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f store.ExportFormat
			var err error
			if format == "" && output != "" {
				f = store.FormatFromPath(output)
			} else if f, err = store.ParseExportFormat(format); err != nil {
				return err
			}

			return c.withApp(cmd.Context(), false, func(app *application) error {
				decks := app.decks.ListDecks()
				if len(args) > 0 {
					decks = make([]domain.Deck, 0, len(args))
					for _, id := range args {
						deck, err := app.decks.GetDeck(id)
						if err != nil {
							return fmt.Errorf("deck %s: %w", id, err)
						}
						decks = append(decks, deck)
					}
				}

				data, err := store.ExportDecks(decks, f)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d decks to %s\n", len(decks), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func (c *cli) decksImportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import decks from an export or the browser app's saved data",
		Long: `Import decks from a JSON or YAML export. Decks whose ids already exist
are skipped. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.FormatFromPath(args[0])
			if format != "" {
				var err error
				if f, err = store.ParseExportFormat(format); err != nil {
					return err
				}
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			decoded, err := store.DecodeExport(data, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			return c.withApp(cmd.Context(), false, func(app *application) error {
				added, err := app.decks.ImportDecks(cmd.Context(), decoded.Decks)
				if err != nil {
					return err
				}
				skipped := decoded.Skipped + len(decoded.Decks) - added
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d decks", added)
				if skipped > 0 {
					mutedStyle.Fprintf(cmd.OutOrStdout(), " (%d skipped)", skipped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension)")
	return cmd
}
