package cmd

import (
	"fmt"
	"sort"

	"spendwell/internal/cli"
	"spendwell/internal/report"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary over the recent window",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	days := resolveDays(cfg)
	txs, err := st.UserTransactions(resolveUser(cfg), days)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	s := report.Build(txs, days)
	if s.Transactions == 0 {
		fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("No transactions in the last %d days.", days)))
		fmt.Println("  Record one with `spendwell add` or load a file with `spendwell import`.")
		return nil
	}

	fmt.Println(cli.RenderTitle(fmt.Sprintf("Last %d days", days)))
	fmt.Println()
	fmt.Printf("  Transactions:    %s\n", cli.FormatNumber(int64(s.Transactions)))
	fmt.Printf("  Total spend:     %s\n", cli.FormatMoney(s.Total))
	fmt.Printf("  Monthly average: %s\n", cli.FormatMoney(s.MonthlyAverage))
	if s.Anomalies > 0 {
		fmt.Printf("  Anomalies:       %s\n", cli.RenderAlert(cli.FormatNumber(int64(s.Anomalies))))
	}
	fmt.Println()

	t := cli.Table{
		Title:   "By category",
		Headers: []string{"Category", "Amount", "Share"},
	}
	for _, cat := range s.TopCategories() {
		t.Rows = append(t.Rows, []string{
			cat,
			cli.FormatMoney(s.ByCategory[cat]),
			cli.FormatPercent(s.CategoryPct[cat]),
		})
	}
	fmt.Print(cli.RenderTable(t))
	fmt.Println()

	pt := cli.Table{
		Title:   "By payment method",
		Headers: []string{"Method", "Amount"},
	}
	methods := make([]string, 0, len(s.ByPayment))
	for m := range s.ByPayment {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		if s.ByPayment[methods[i]] != s.ByPayment[methods[j]] {
			return s.ByPayment[methods[i]] > s.ByPayment[methods[j]]
		}
		return methods[i] < methods[j]
	})
	for _, m := range methods {
		pt.Rows = append(pt.Rows, []string{m, cli.FormatMoney(s.ByPayment[m])})
	}
	fmt.Print(cli.RenderTable(pt))
	return nil
}
