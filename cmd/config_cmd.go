// Package cmd implements the spendwell CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"spendwell/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Store path:   %s\n", config.StorePath(cfg))
	if cfg.General.DefaultUser > 0 {
		fmt.Printf("    Default user: %d\n", cfg.General.DefaultUser)
	}
	fmt.Println()

	fmt.Println("  [Analysis]")
	fmt.Printf("    Lookback window:  %d days\n", cfg.Analysis.LookbackDays)
	fmt.Printf("    Forecast horizon: %d days\n", cfg.Analysis.HorizonDays)
	fmt.Printf("    Contamination:    %.2f\n", cfg.Analysis.Contamination)
	fmt.Printf("    Trees:            %d (seed %d)\n", cfg.Analysis.Trees, cfg.Analysis.Seed)
	fmt.Printf("    Minimum records:  %d anomaly / %d forecast / %d per category\n",
		cfg.Analysis.MinAnomalyRecords, cfg.Analysis.MinForecastRecords, cfg.Analysis.MinCategoryRecords)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Income fraction: %.0f%%\n", cfg.Budget.IncomeFraction*100)
	if cfg.Budget.MonthlyLimit != nil {
		fmt.Printf("    Monthly limit:   %.0f (overrides income fraction)\n", *cfg.Budget.MonthlyLimit)
	} else {
		fmt.Println("    Monthly limit:   not set")
	}
	fmt.Println()

	fmt.Println("  [Vocabulary]")
	fmt.Printf("    Categories:      %s\n", strings.Join(cfg.Vocabulary.Categories, ", "))
	fmt.Printf("    Payment methods: %s\n", strings.Join(cfg.Vocabulary.PaymentMethods, ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	return nil
}
