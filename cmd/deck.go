package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/deckfile"
	"github.com/abhisek/mio/internal/library"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage the decks of a deadline",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create DEADLINE NAME FILE",
	Short: "Create a deck from a card file",
	Long: `Create a deck under DEADLINE with the cards in FILE. FILE is a JSON or
YAML deck document, or a text file with one "front >> back" pair per line.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := deckfile.ReadFile(args[2])
		if err != nil {
			return err
		}
		newPerDay := cfg.NewPerDay
		if cmd.Flags().Changed("new-per-day") {
			newPerDay, _ = cmd.Flags().GetInt("new-per-day")
		}

		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		dl, err := lib.Deadline(ctx, args[0])
		if err != nil {
			return err
		}
		d, err := lib.CreateDeck(ctx, dl, args[1], newPerDay, cards)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created deck %q with %d cards (%s)\n", d.Name, len(cards), deckShape(d))
		return nil
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add DEADLINE NAME FILE",
	Short: "Add cards to a deck",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := deckfile.ReadFile(args[2])
		if err != nil {
			return err
		}

		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		dl, err := lib.Deadline(ctx, args[0])
		if err != nil {
			return err
		}
		d, err := lib.Deck(ctx, dl, args[1])
		if err != nil {
			return err
		}
		n, err := lib.AddCards(ctx, dl, d, cards)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d cards to %q\n", n, d.Name)
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list DEADLINE",
	Short: "List the decks of a deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		dl, err := lib.Deadline(ctx, args[0])
		if err != nil {
			return err
		}
		decks, err := lib.Decks(ctx, dl)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Deadline %q has no decks yet.\n", dl.Name)
			return nil
		}

		rows := make([][]string, 0, len(decks))
		for _, d := range decks {
			status, err := lib.Status(ctx, dl, d)
			if err != nil {
				return err
			}
			rows = append(rows, []string{d.Name, strconv.Itoa(status.Cards), deckShape(d), workload(status)})
		}
		printTable(cmd.OutOrStdout(), []string{"Deck", "Cards", "Schedule", "Today"}, rows)
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete DEADLINE NAME",
	Short: "Delete a deck with its cards",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		dl, err := lib.Deadline(ctx, args[0])
		if err != nil {
			return err
		}
		d, err := lib.Deck(ctx, dl, args[1])
		if err != nil {
			return err
		}
		if err := lib.DeleteDeck(ctx, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %q\n", d.Name)
		return nil
	},
}

func init() {
	deckCreateCmd.Flags().Int("new-per-day", 0, "new cards per day for interval-mode decks (default from config)")

	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckAddCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}

func workload(s library.DeckStatus) string {
	if s.NewToday > 0 || s.ReviewsToday > 0 {
		return fmt.Sprintf("%d new, %d reviews", s.NewToday, s.ReviewsToday)
	}
	switch {
	case s.Due > 0 && s.MaxOverdue > 0:
		return fmt.Sprintf("%d due, up to %d days late", s.Due, s.MaxOverdue)
	case s.Due > 0:
		return fmt.Sprintf("%d due", s.Due)
	case s.NextDueIn > 0:
		return fmt.Sprintf("next due in %d days", s.NextDueIn)
	case s.New > 0:
		return fmt.Sprintf("%d new", s.New)
	}
	return "done"
}

func deckShape(d deck.Deck) string {
	if d.Mode == deck.ModeBox {
		return fmt.Sprintf("box, %d boxes", d.BoxCount)
	}
	return fmt.Sprintf("interval, %d new per day", d.NewPerDay)
}
