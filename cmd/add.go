package cmd

import (
	"fmt"
	"time"

	"spendwell/internal/anomaly"
	"spendwell/internal/cli"
	"spendwell/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddAmount   float64
	flagAddCategory string
	flagAddMethod   string
	flagAddDesc     string
	flagAddTime     string
	flagAddNoCheck  bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense and check it against your history",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().Float64VarP(&flagAddAmount, "amount", "a", 0, "Expense amount")
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category (e.g. food, rent, transport)")
	addCmd.Flags().StringVarP(&flagAddMethod, "method", "m", "cash", "Payment method")
	addCmd.Flags().StringVar(&flagAddDesc, "desc", "", "Optional description")
	addCmd.Flags().StringVar(&flagAddTime, "time", "", "Timestamp (RFC3339 or 2006-01-02), defaults to now")
	addCmd.Flags().BoolVar(&flagAddNoCheck, "no-check", false, "Skip the synchronous anomaly check")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, _ []string) error {
	if flagAddAmount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", flagAddAmount)
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var ts time.Time
	if flagAddTime != "" {
		ts, err = parseTimeFlag(flagAddTime)
		if err != nil {
			return err
		}
	}

	userID := resolveUser(cfg)
	id, err := st.AddTransaction(model.Transaction{
		UserID:        userID,
		Amount:        flagAddAmount,
		Category:      flagAddCategory,
		PaymentMethod: flagAddMethod,
		Description:   flagAddDesc,
		Timestamp:     ts,
	})
	if err != nil {
		return fmt.Errorf("recording transaction: %w", err)
	}

	if !flagQuiet {
		fmt.Printf("  Recorded #%d: %s on %s\n", id, cli.FormatMoney(flagAddAmount), flagAddCategory)
	}

	if flagAddNoCheck {
		return nil
	}

	result, err := anomaly.NewDetector(st, cfg).CheckNew(userID, id)
	if err != nil {
		return fmt.Errorf("checking transaction: %w", err)
	}
	printCheckResult(result)
	return nil
}

func printCheckResult(r model.AnomalyResult) {
	switch {
	case r.IsAnomaly:
		fmt.Printf("  %s (score %s)\n",
			cli.RenderAlert("Unusual spending detected"), cli.FormatScore(r.Score))
		if r.Explanation != "" {
			fmt.Printf("  %s\n", r.Explanation)
		}
	case r.Score > 0:
		fmt.Printf("  %s (score %s)\n",
			cli.RenderOK("Looks normal"), cli.FormatScore(r.Score))
	default:
		// Structured non-error path: cold start or missing transaction.
		fmt.Printf("  %s\n", cli.RenderMuted(r.Explanation))
	}
}

func parseTimeFlag(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC3339 or 2006-01-02)", s)
}
