package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/mio/internal/config"
	"github.com/abhisek/mio/internal/library"
	"github.com/abhisek/mio/internal/logging"
	"github.com/abhisek/mio/internal/store"
)

var (
	cfgFile string
	cfg     config.Config
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mio",
	Short: "Flashcards that plan the work back from your deadline",
	Long: `mio schedules flashcard study against a deadline. Each deck spreads its
new cards and reviews over the days left, and a review session walks you
through today's share.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.config/mio/config.yaml)")
	pf.String("db", "", "path to SQLite database file (overrides MIO_DB)")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(deadlineCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(quotasCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig layers flags over MIO_* variables over the config file and
// builds the logger.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag(config.KeyDB, flags.Lookup("db")); err != nil {
		return err
	}
	if err := v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
		return err
	}

	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(c.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, logger = c, log
	logger.WithField("config", c.File).Debug("configuration loaded")
	return nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openLibrary opens the store and wraps it in a library service. The caller
// closes the store.
func openLibrary() (*library.Service, *store.Store, string, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open store: %w", err)
	}
	logger.WithField("db", path).Debug("store opened")
	return library.New(st, logger), st, path, nil
}
