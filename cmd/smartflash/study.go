package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/smartflash/internal/domain"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/spf13/cobra"
)

const studyHelp = `enter/f flip   n next   p prev   d toggle done   r restart
a all cards    u undone only    s shuffle       q quit`

func (c *cli) studyCmd() *cobra.Command {
	var (
		filter  string
		shuffle bool
	)
	cmd := &cobra.Command{
		Use:   "study <deck-id>",
		Short: "Review a deck one card at a time",
		Long:  "Review a deck in the terminal. Commands are read one per line:\n\n" + studyHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := domain.ParseFilter(filter)
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), false, func(app *application) error {
				session, err := app.sessions.Open(cmd.Context(), args[0], f, shuffle)
				if err != nil {
					return fmt.Errorf("study deck %s: %w", args[0], err)
				}
				defer func() { _ = app.sessions.Close(session.ID()) }()

				return runStudy(cmd.Context(), app, session, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all or undone")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the deck before starting")
	return cmd
}

// runStudy drives a session from line commands until q or end of input.
func runStudy(ctx context.Context, app *application, session *review.Session, in io.Reader, out io.Writer) error {
	renderView(out, session.View())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, mutedStyle.Sprint("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "f", "flip":
			err = session.Flip()
		case "n", "next":
			err = session.Next()
		case "p", "prev":
			err = session.Prev()
		case "d", "done":
			_, err = app.sessions.ToggleCurrentDone(ctx, session.ID())
		case "r", "restart":
			err = session.Restart()
		case "a", "all":
			err = session.SetFilter(domain.FilterAll)
		case "u", "undone":
			err = session.SetFilter(domain.FilterUndone)
		case "s", "shuffle":
			_, err = app.decks.ShuffleDeck(ctx, session.DeckID())
		case "q", "quit", "exit":
			return nil
		case "?", "h", "help":
			fmt.Fprintln(out, studyHelp)
			continue
		default:
			warnStyle.Fprintln(out, "Unknown command. Type ? for help.")
			continue
		}

		if err != nil {
			if errors.Is(err, review.ErrSessionClosed) {
				warnStyle.Fprintln(out, "This deck was deleted.")
				return nil
			}
			// declined actions leave the session as it was
			if !errors.Is(err, review.ErrNoCurrentCard) && !store.IsPersistenceError(err) {
				return err
			}
			warnStyle.Fprintln(out, userMessage(err))
		}
		renderView(out, session.View())
	}
}

func renderView(w io.Writer, v review.View) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %s  %s\n",
		titleStyle.Sprint(v.DeckTitle),
		mutedStyle.Sprintf("[%s]", v.Filter),
		mutedStyle.Sprintf("%d/%d, %d of %d mastered", v.Position, v.Count, v.Done, v.Total))

	if v.AllDone {
		if v.Filter == domain.FilterUndone && v.Total > 0 {
			doneStyle.Fprintln(w, "All cards are done! Type a to see every card.")
		} else {
			mutedStyle.Fprintln(w, "This deck has no cards.")
		}
		return
	}
	if v.Card == nil {
		return
	}

	mark := ""
	if v.Card.IsDone {
		mark = doneStyle.Sprint(" [done]")
	}
	fmt.Fprintf(w, "\n  %s%s\n", termStyle.Sprint(v.Card.Term), mark)
	if v.Revealed {
		fmt.Fprintf(w, "  %s\n", v.Card.Definition)
		if v.Card.Context != nil {
			contextStyle.Fprintf(w, "  %s\n", *v.Card.Context)
		}
	} else {
		mutedStyle.Fprintln(w, "  (press enter to reveal)")
	}
	if v.AtEnd {
		mutedStyle.Fprintln(w, "\nYou've reached the end. Type r to start over.")
	}
}
