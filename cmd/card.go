package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/library"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "List, edit and remove the cards of a deck",
}

var cardListCmd = &cobra.Command{
	Use:   "list DEADLINE DECK",
	Short: "List the cards of a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		_, d, err := findDeck(cmd, lib, args[0], args[1])
		if err != nil {
			return err
		}
		items, err := lib.Cards(cmd.Context(), d)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Deck %q has no cards.\n", d.Name)
			return nil
		}

		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{strconv.FormatInt(it.ID, 10), it.Front, it.Back, cardPlace(it)})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "Front", "Back", "Schedule"}, rows)
		return nil
	},
}

var cardEditCmd = &cobra.Command{
	Use:   "edit DEADLINE DECK ID",
	Short: "Change the front or back of a card",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: card id %q", library.ErrInvalidArgument, args[2])
		}
		if !cmd.Flags().Changed("front") && !cmd.Flags().Changed("back") {
			return fmt.Errorf("%w: nothing to change, pass --front or --back", library.ErrInvalidArgument)
		}

		lib, st, path, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()
		unlock, err := lockSession(path)
		if err != nil {
			return err
		}
		defer unlock()

		ctx := cmd.Context()
		_, d, err := findDeck(cmd, lib, args[0], args[1])
		if err != nil {
			return err
		}
		it, err := st.Item(ctx, d, id)
		if err != nil {
			return err
		}
		front, back := it.Front, it.Back
		if cmd.Flags().Changed("front") {
			front, _ = cmd.Flags().GetString("front")
		}
		if cmd.Flags().Changed("back") {
			back, _ = cmd.Flags().GetString("back")
		}
		if err := lib.UpdateCard(ctx, d, id, front, back); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d in %q\n", id, d.Name)
		return nil
	},
}

var cardRemoveCmd = &cobra.Command{
	Use:     "rm DEADLINE DECK ID",
	Aliases: []string{"delete"},
	Short:   "Remove a card and the work it still owed",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: card id %q", library.ErrInvalidArgument, args[2])
		}

		lib, st, path, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()
		unlock, err := lockSession(path)
		if err != nil {
			return err
		}
		defer unlock()

		dl, d, err := findDeck(cmd, lib, args[0], args[1])
		if err != nil {
			return err
		}
		released, err := lib.DeleteCard(cmd.Context(), dl, d, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Removed card %d from %q\n", id, d.Name)
		if released > 0 {
			fmt.Fprintf(out, "Released %d quota units\n", released)
		}
		return nil
	},
}

func init() {
	cardEditCmd.Flags().String("front", "", "new front text")
	cardEditCmd.Flags().String("back", "", "new back text")

	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardEditCmd)
	cardCmd.AddCommand(cardRemoveCmd)
	deckCmd.AddCommand(cardCmd)
}

func findDeck(cmd *cobra.Command, lib *library.Service, deadline, name string) (deck.Deadline, deck.Deck, error) {
	ctx := cmd.Context()
	dl, err := lib.Deadline(ctx, deadline)
	if err != nil {
		return deck.Deadline{}, deck.Deck{}, err
	}
	d, err := lib.Deck(ctx, dl, name)
	if err != nil {
		return deck.Deadline{}, deck.Deck{}, err
	}
	return dl, d, nil
}

func cardPlace(it deck.Item) string {
	if it.Box != nil {
		return fmt.Sprintf("box %d", it.Box.Position)
	}
	if it.Interval.IsNew() && it.Interval.LastReview.IsZero() {
		return "new"
	}
	return "next " + it.Interval.NextPractice.Format(deck.DayLayout)
}
