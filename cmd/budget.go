package cmd

import (
	"fmt"

	"spendwell/internal/budget"
	"spendwell/internal/cli"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Project this month's spend against your budget",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	proj, err := budget.NewProjector(st, cfg).Project(resolveUser(cfg))
	if err != nil {
		return fmt.Errorf("projecting budget: %w", err)
	}
	if proj == nil {
		fmt.Printf("  %s\n", cli.RenderMuted("No monthly income on file."))
		fmt.Println("  Set it with `spendwell prefs` to enable budget tracking.")
		return nil
	}

	fmt.Println(cli.RenderTitle("Budget projection"))
	fmt.Println()
	fmt.Printf("  Month to date:   %s\n", cli.FormatMoney(proj.CurrentSpending))
	fmt.Printf("  Projected total: %s\n", cli.FormatMoney(proj.ProjectedTotal))
	fmt.Printf("  Budget limit:    %s\n", cli.FormatMoney(proj.BudgetLimit))
	fmt.Printf("  Days remaining:  %d\n", proj.DaysRemaining)
	fmt.Println()

	frac := 0.0
	if proj.BudgetLimit > 0 {
		frac = proj.ProjectedTotal / proj.BudgetLimit
	}
	fmt.Printf("  %s\n\n", cli.RenderBar(40, frac))

	if proj.WillExceed {
		fmt.Printf("  %s\n", cli.RenderAlert(
			fmt.Sprintf("On track to exceed the budget by %s", cli.FormatMoney(proj.ExcessAmount))))
	} else {
		fmt.Printf("  %s\n", cli.RenderOK("Spending is within budget"))
	}
	return nil
}
