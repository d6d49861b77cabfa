package cmd

import (
	"fmt"

	"spendwell/internal/anomaly"
	"spendwell/internal/cli"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Re-score recent history and list anomalous transactions",
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	userID := resolveUser(cfg)
	txs, err := st.UserTransactions(userID, cfg.Analysis.LookbackDays)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(txs) < cfg.Analysis.MinAnomalyRecords {
		fmt.Printf("  %s\n", cli.RenderMuted(anomaly.MsgInsufficientData))
		fmt.Printf("  %d of %d transactions recorded so far.\n", len(txs), cfg.Analysis.MinAnomalyRecords)
		return nil
	}

	flagged, err := anomaly.NewDetector(st, cfg).Detect(userID)
	if err != nil {
		return fmt.Errorf("running detection: %w", err)
	}

	if len(flagged) == 0 {
		fmt.Printf("  %s (%d transactions scored)\n", cli.RenderOK("No anomalies found"), len(txs))
		return nil
	}

	fmt.Println(cli.RenderTitle(fmt.Sprintf("%d anomalous transactions", len(flagged))))
	fmt.Println()

	t := cli.Table{
		Headers: []string{"ID", "Date", "Category", "Method", "Amount", "Score"},
	}
	for _, tx := range flagged {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", tx.ID),
			tx.Timestamp.Local().Format("2006-01-02"),
			tx.Category,
			tx.PaymentMethod,
			cli.FormatMoney(tx.Amount),
			cli.FormatScore(tx.AnomalyScore),
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
