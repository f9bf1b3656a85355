package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/deck"
)

var quotasCmd = &cobra.Command{
	Use:   "quotas DEADLINE DECK",
	Short: "Show the day-by-day plan of a box-mode deck",
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
		if d.Mode != deck.ModeBox {
			return fmt.Errorf("deck %q uses SM-2 intervals and has no quota table", d.Name)
		}
		tbl, err := lib.QuotaTable(ctx, d)
		if err != nil {
			return err
		}

		today := dl.DaysToGo(time.Now())
		due := dl.DueAt.Local()
		rows := make([][]string, 0, len(tbl))
		for i := len(tbl) - 1; i >= 0; i-- {
			r := tbl[i]
			mark := ""
			if i == today {
				mark = "◂ today"
			}
			rows = append(rows, []string{
				due.AddDate(0, 0, -i).Format(deck.DayLayout),
				strconv.Itoa(i),
				fmt.Sprintf("%d/%d", r.NewPracticed, r.NewAssigned),
				fmt.Sprintf("%d/%d", r.ReviewPracticed, r.ReviewAssigned),
				mark,
			})
		}
		printTable(cmd.OutOrStdout(), []string{"Date", "To go", "New", "Reviews", ""}, rows)

		newTotal, reviewTotal := tbl.Totals()
		fmt.Fprintf(cmd.OutOrStdout(), "%d boxes, %d new and %d reviews planned in total\n", d.BoxCount, newTotal, reviewTotal)
		return nil
	},
}
