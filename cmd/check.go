package cmd

import (
	"fmt"
	"strconv"

	"spendwell/internal/anomaly"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <transaction-id>",
	Short: "Score one recorded transaction against the rest of your history",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := anomaly.NewDetector(st, cfg).CheckNew(resolveUser(cfg), id)
	if err != nil {
		return fmt.Errorf("checking transaction %d: %w", id, err)
	}
	printCheckResult(result)
	return nil
}
