package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/library"
)

var deadlineCmd = &cobra.Command{
	Use:   "deadline",
	Short: "Manage deadlines",
}

var deadlineCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a deadline",
	Long: `Create a deadline. Box-mode deadlines need a due date (--due or --in);
--interval creates an open-ended deadline whose decks use SM-2 intervals.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetBool("interval")
		spec := library.DeadlineSpec{
			Name:           args[0],
			StudyIntensity: intensityFlag(cmd),
			IntervalMode:   interval,
		}
		if !interval {
			due, err := dueFlag(cmd, time.Now())
			if err != nil {
				return err
			}
			spec.DueAt = due
		}

		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		dl, err := lib.CreateDeadline(cmd.Context(), spec)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created deadline %q (%s)\n", dl.Name, describeDeadline(dl, time.Now()))
		return nil
	},
}

var deadlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deadlines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, st, _, err := openLibrary()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		dls, err := lib.Deadlines(ctx)
		if err != nil {
			return err
		}
		if len(dls) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No deadlines yet.")
			return nil
		}

		now := time.Now()
		rows := make([][]string, 0, len(dls))
		for _, dl := range dls {
			decks, err := lib.Decks(ctx, dl)
			if err != nil {
				return err
			}
			due := "-"
			if !dl.IntervalMode {
				due = dl.DueAt.Local().Format(deck.DayLayout)
			}
			rows = append(rows, []string{
				dl.Name, dl.Mode().String(), due, describeDeadline(dl, now),
				strconv.Itoa(len(decks)), strconv.Itoa(dl.StudyIntensity), strconv.Itoa(dl.ResetCount),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"Name", "Mode", "Due", "Left", "Decks", "Intensity", "Resets"}, rows)
		return nil
	},
}

var deadlineResetCmd = &cobra.Command{
	Use:   "reset NAME",
	Short: "Move a deadline and replan its decks",
	Long: `Move a box-mode deadline to a new due date. Each deck gets more boxes
depending on the study intensity, and its quota table is planned again with
the progress made so far taken into account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := dueFlag(cmd, time.Now())
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
		intensity := dl.StudyIntensity
		if cmd.Flags().Changed("intensity") {
			intensity = intensityFlag(cmd)
		}
		dl, err = lib.ResetDeadline(ctx, dl, due, intensity)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset deadline %q (%s, reset #%d)\n", dl.Name, describeDeadline(dl, time.Now()), dl.ResetCount)
		return nil
	},
}

var deadlineDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a deadline with all its decks",
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
		if err := lib.DeleteDeadline(ctx, dl); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted deadline %q\n", dl.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{deadlineCreateCmd, deadlineResetCmd} {
		c.Flags().String("due", "", "due date as YYYY-MM-DD")
		c.Flags().Int("in", 0, "due in this many days")
		c.Flags().Int("intensity", 0, "study intensity; higher values add fewer boxes on reset (default from config)")
	}
	deadlineCreateCmd.Flags().Bool("interval", false, "schedule with SM-2 intervals instead of a due date")

	deadlineCmd.AddCommand(deadlineCreateCmd)
	deadlineCmd.AddCommand(deadlineListCmd)
	deadlineCmd.AddCommand(deadlineResetCmd)
	deadlineCmd.AddCommand(deadlineDeleteCmd)
}

// dueFlag reads --due or --in. Dates are taken in local time.
func dueFlag(cmd *cobra.Command, now time.Time) (time.Time, error) {
	due, _ := cmd.Flags().GetString("due")
	in, _ := cmd.Flags().GetInt("in")
	switch {
	case due != "" && cmd.Flags().Changed("in"):
		return time.Time{}, errors.New("use either --due or --in, not both")
	case due != "":
		t, err := time.ParseInLocation(deck.DayLayout, due, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --due %q: want YYYY-MM-DD", due)
		}
		return t, nil
	case cmd.Flags().Changed("in"):
		if in < 0 {
			return time.Time{}, fmt.Errorf("invalid --in %d: must not be negative", in)
		}
		day := now.Add(-deck.DayRollover)
		return time.Date(day.Year(), day.Month(), day.Day()+in, 12, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, errors.New("a due date is required: pass --due or --in")
}

func intensityFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("intensity") {
		n, _ := cmd.Flags().GetInt("intensity")
		return n
	}
	return cfg.StudyIntensity
}

func describeDeadline(dl deck.Deadline, now time.Time) string {
	if dl.IntervalMode {
		return "no due date"
	}
	switch dtg := dl.DaysToGo(now); {
	case dtg < 0:
		return "passed"
	case dtg == 0:
		return "due today"
	case dtg == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", dtg)
	}
}
