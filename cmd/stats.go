package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review statistics per deck",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetDuration("since")
		only, _ := cmd.Flags().GetString("deadline")

		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		var opts store.QueryOpts
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		stats, err := st.Stats(ctx, opts)
		if err != nil {
			return err
		}

		var dls []deck.Deadline
		if only != "" {
			dl, err := lib.Deadline(ctx, only)
			if err != nil {
				return err
			}
			dls = []deck.Deadline{dl}
		} else if dls, err = lib.Deadlines(ctx); err != nil {
			return err
		}

		var rows [][]string
		for _, dl := range dls {
			decks, err := lib.Decks(ctx, dl)
			if err != nil {
				return err
			}
			for _, d := range decks {
				s, ok := stats[d.ID]
				if !ok {
					continue
				}
				accuracy := "-"
				if s.Reviews > 0 {
					accuracy = fmt.Sprintf("%.0f%%", 100*float64(s.Passed)/float64(s.Reviews))
				}
				rows = append(rows, []string{
					dl.Name + "/" + d.Name,
					strconv.Itoa(s.Sessions),
					strconv.Itoa(s.Reviews),
					strconv.Itoa(s.Introduced),
					accuracy,
					s.LastReview.Local().Format("2006-01-02 15:04"),
				})
			}
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reviews recorded yet.")
			return nil
		}
		printTable(cmd.OutOrStdout(), []string{"Deck", "Sessions", "Reviews", "Introduced", "Passed", "Last review"}, rows)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("deadline", "", "only show decks of this deadline")
	statsCmd.Flags().Duration("since", 0, "only count reviews this recent, e.g. 168h")
}
