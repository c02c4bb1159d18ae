package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/spf13/cobra"
)

func (c *cli) cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Add, edit, delete and mark cards in a deck",
	}
	cmd.AddCommand(
		c.cardsAddCmd(),
		c.cardsEditCmd(),
		c.cardsDeleteCmd(),
		c.cardsToggleCmd(),
	)
	return cmd
}

func (c *cli) cardsAddCmd() *cobra.Command {
	var term, definition, note string
	cmd := &cobra.Command{
		Use:   "add <deck-id>",
		Short: "Add a card to the end of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := domain.Card{
				ID:         uuid.NewString(),
				Term:       term,
				Definition: definition,
			}
			if cmd.Flags().Changed("context") {
				card.Context = &note
			}
			return c.withApp(cmd.Context(), false, func(app *application) error {
				added, err := app.decks.AddCard(cmd.Context(), args[0], card)
				if err != nil {
					return fmt.Errorf("add card: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Added card")
				printCard(cmd.OutOrStdout(), added)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "front of the card")
	cmd.Flags().StringVar(&definition, "definition", "", "back of the card")
	cmd.Flags().StringVar(&note, "context", "", "optional example or note")
	_ = cmd.MarkFlagRequired("term")
	_ = cmd.MarkFlagRequired("definition")
	return cmd
}

func (c *cli) cardsEditCmd() *cobra.Command {
	var term, definition, note string
	cmd := &cobra.Command{
		Use:   "edit <deck-id> <card-id>",
		Short: "Change the term, definition or context of a card",
		Long: `Change the fields given as flags and leave the others untouched.
Pass --context "" to remove the context.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.CardPatch
			if cmd.Flags().Changed("term") {
				patch.Term = &term
			}
			if cmd.Flags().Changed("definition") {
				patch.Definition = &definition
			}
			if cmd.Flags().Changed("context") {
				patch.Context = &note
			}
			if patch == (domain.CardPatch{}) {
				return errors.New("nothing to change; pass --term, --definition or --context")
			}

			return c.withApp(cmd.Context(), false, func(app *application) error {
				card, err := app.decks.UpdateCard(cmd.Context(), args[0], args[1], patch)
				if err != nil {
					return fmt.Errorf("edit card: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Updated card")
				printCard(cmd.OutOrStdout(), card)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "new term")
	cmd.Flags().StringVar(&definition, "definition", "", "new definition")
	cmd.Flags().StringVar(&note, "context", "", "new context, empty to remove")
	return cmd
}

func (c *cli) cardsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id> <card-id>",
		Short: "Remove a card from a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				if err := app.decks.DeleteCard(cmd.Context(), args[0], args[1]); err != nil {
					return fmt.Errorf("delete card: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", args[1])
				return nil
			})
		},
	}
}

func (c *cli) cardsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <deck-id> <card-id>",
		Short: "Mark a card done, or not done again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), false, func(app *application) error {
				card, err := app.decks.ToggleCardDone(cmd.Context(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("toggle card: %w", err)
				}
				printCard(cmd.OutOrStdout(), card)
				return nil
			})
		},
	}
}
