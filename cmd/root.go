package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"spendwell/internal/config"
	"spendwell/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagUser  int64
	flagDB    string
	flagDays  int
	flagQuiet bool
)

var rootCmd = &cobra.Command{
	Use:   "spendwell",
	Short: "Personal spending analytics CLI",
	Long:  "Track expenses, flag unusual spending, and forecast where the month is heading.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64VarP(&flagUser, "user", "u", 0, "User ID (defaults to configured user)")
	rootCmd.PersistentFlags().StringVarP(&flagDB, "db", "d", "", "SQLite database path override")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "History window in days (defaults to configured lookback)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// loadConfig loads the config file, falling back to defaults on error.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// openStore opens the transaction store at the resolved database path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := config.StorePath(cfg)
	if flagDB != "" {
		path = flagDB
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", path, err)
	}
	return st, nil
}

// resolveUser picks the active user: flag, then config, then user 1.
func resolveUser(cfg config.Config) int64 {
	if flagUser > 0 {
		return flagUser
	}
	if cfg.General.DefaultUser > 0 {
		return cfg.General.DefaultUser
	}
	return 1
}

// resolveDays picks the history window: flag, then configured lookback.
func resolveDays(cfg config.Config) int {
	if flagDays > 0 {
		return flagDays
	}
	return cfg.Analysis.LookbackDays
}

// newLogger builds the command logger; --quiet keeps only warnings.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagQuiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
