package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/mio/internal/app"
	"github.com/abhisek/mio/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review [DEADLINE]",
	Short: "Start a review session",
	Long: `Start a review session. With a DEADLINE the session opens right away;
without one a menu lists the deadlines to pick from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return runReview(cmd, name)
	},
}

// runReview holds the session lock for the duration of the TUI so that only
// one process reviews a database at a time.
func runReview(cmd *cobra.Command, name string) error {
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
	opts := app.Options{Library: lib, Saver: st}
	if name != "" {
		dl, err := lib.Deadline(ctx, name)
		if err != nil {
			return err
		}
		opts.Deadline = &dl
	}

	// The TUI owns the terminal; logs go to a file next to the database
	// at debug level and nowhere otherwise.
	restore, err := redirectLogs(logger, path+".log")
	if err != nil {
		return err
	}
	defer restore()
	opts.Logger = logger

	return app.Run(ctx, opts)
}

// lockSession takes the session lock of the database at path. Commands
// that change cards hold it too, so they cannot race a running review.
func lockSession(path string) (func(), error) {
	lock, err := store.NewSessionLock(path)
	if err != nil {
		return nil, err
	}
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, store.ErrLocked) {
			return nil, fmt.Errorf("%w: close the other session first", err)
		}
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.WithError(err).Warn("release session lock")
		}
	}, nil
}

func redirectLogs(log *logrus.Logger, file string) (func(), error) {
	prev := log.Out
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(prev) }, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		f.Close()
	}, nil
}

