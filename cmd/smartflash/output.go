package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/phrazzld/smartflash/internal/domain"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold)
	termStyle    = color.New(color.Bold)
	contextStyle = color.New(color.Italic, color.FgHiBlack)
	doneStyle    = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	mutedStyle   = color.New(color.FgHiBlack)
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDeckLine(w io.Writer, deck domain.Deck) {
	fmt.Fprintf(w, "%s  %s  %s\n",
		mutedStyle.Sprint(deck.ID),
		titleStyle.Sprint(deck.Title),
		mutedStyle.Sprintf("%d/%d mastered, created %s",
			deck.DoneCount(), len(deck.Cards), deck.CreatedAt.Local().Format(time.DateTime)))
}

func printDeck(w io.Writer, deck domain.Deck) {
	titleStyle.Fprintln(w, deck.Title)
	mutedStyle.Fprintf(w, "%s  %d cards, %d mastered\n\n", deck.ID, len(deck.Cards), deck.DoneCount())
	for i, c := range deck.Cards {
		mark := "[ ]"
		if c.IsDone {
			mark = doneStyle.Sprint("[x]")
		}
		fmt.Fprintf(w, "%3d. %s %s: %s\n", i+1, mark, termStyle.Sprint(c.Term), c.Definition)
		if c.Context != nil {
			contextStyle.Fprintf(w, "          %s\n", *c.Context)
		}
		mutedStyle.Fprintf(w, "          id %s\n", c.ID)
	}
}

func printCard(w io.Writer, card domain.Card) {
	fmt.Fprintf(w, "%s: %s\n", termStyle.Sprint(card.Term), card.Definition)
	if card.Context != nil {
		contextStyle.Fprintln(w, *card.Context)
	}
	status := "not done"
	if card.IsDone {
		status = doneStyle.Sprint("done")
	}
	mutedStyle.Fprintf(w, "id %s, %s\n", card.ID, status)
}
