package cmd

import (
	"fmt"

	"spendwell/internal/cli"
	"spendwell/internal/ingest"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-load transactions from a CSV file",
	Long: "Loads transactions from a CSV with columns amount, category,\n" +
		"payment_method, timestamp and an optional description. Invalid rows\n" +
		"are skipped and reported; valid rows are always committed.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	logger := newLogger()
	stats, err := ingest.ImportFile(st, logger, resolveUser(cfg), args[0])
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}

	fmt.Printf("  Imported %s of %s rows",
		cli.FormatNumber(int64(stats.Imported)), cli.FormatNumber(int64(stats.Rows)))
	if stats.Skipped > 0 {
		fmt.Printf(" (%s)", cli.RenderWarn(fmt.Sprintf("%d skipped", stats.Skipped)))
	}
	fmt.Println()

	if stats.Skipped > 0 && !flagQuiet {
		stats.Log(logger)
	}
	return nil
}
