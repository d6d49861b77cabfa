package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendwell/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagWatchInterval time.Duration
	flagWatchBuffer   int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store and flag new anomalous spending as it lands",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", time.Minute, "Polling interval")
	watchCmd.Flags().IntVar(&flagWatchBuffer, "events-buffer", 200, "Max in-memory events retained")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	userID := resolveUser(cfg)
	svc := daemon.New(daemon.Config{
		Store:        st,
		AppConfig:    cfg,
		UserID:       userID,
		Interval:     flagWatchInterval,
		EventsBuffer: flagWatchBuffer,
		Logger:       newLogger(),
	})

	if !flagQuiet {
		fmt.Printf("  Watching spending for user %d every %s\n", userID, flagWatchInterval)
		fmt.Println("  Stop with Ctrl-C.")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
