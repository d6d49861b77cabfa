package cmd

import (
	"fmt"
	"strconv"

	"spendwell/internal/cli"
	"spendwell/internal/model"
	"spendwell/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagPrefsIncome float64
	flagPrefsGoal   float64
	flagPrefsRisk   string
	flagPrefsShow   bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "View or set income, savings goal, and risk tolerance",
	Long: "Without flags, opens an interactive form. With --income/--goal/--risk,\n" +
		"updates only the given fields. With --show, prints current preferences.",
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().Float64Var(&flagPrefsIncome, "income", 0, "Monthly income")
	prefsCmd.Flags().Float64Var(&flagPrefsGoal, "goal", 0, "Monthly savings goal")
	prefsCmd.Flags().StringVar(&flagPrefsRisk, "risk", "", "Risk tolerance (conservative, moderate, aggressive)")
	prefsCmd.Flags().BoolVar(&flagPrefsShow, "show", false, "Print current preferences and exit")
	rootCmd.AddCommand(prefsCmd)
}

func runPrefs(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	userID := resolveUser(cfg)
	current, err := st.Preferences(userID)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	if flagPrefsShow {
		printPrefs(current)
		return nil
	}

	// Non-interactive path: any preference flag set means no form.
	if cmd.Flags().Changed("income") || cmd.Flags().Changed("goal") || cmd.Flags().Changed("risk") {
		return setPrefsFromFlags(cmd, st, userID)
	}

	income, goal, risk, err := promptPrefs(current)
	if err != nil {
		return err
	}
	if err := st.SetPreferences(userID, income, goal, risk); err != nil {
		return err
	}
	fmt.Printf("  %s\n", cli.RenderOK("Preferences saved"))
	return nil
}

func setPrefsFromFlags(cmd *cobra.Command, st *store.Store, userID int64) error {
	var income, goal *float64
	if cmd.Flags().Changed("income") {
		if flagPrefsIncome <= 0 {
			return fmt.Errorf("income must be positive, got %.2f", flagPrefsIncome)
		}
		income = &flagPrefsIncome
	}
	if cmd.Flags().Changed("goal") {
		if flagPrefsGoal < 0 {
			return fmt.Errorf("goal must not be negative, got %.2f", flagPrefsGoal)
		}
		goal = &flagPrefsGoal
	}
	if flagPrefsRisk != "" && !validRisk(flagPrefsRisk) {
		return fmt.Errorf("unknown risk tolerance %q", flagPrefsRisk)
	}

	if err := st.SetPreferences(userID, income, goal, flagPrefsRisk); err != nil {
		return err
	}
	fmt.Printf("  %s\n", cli.RenderOK("Preferences saved"))
	return nil
}

// promptPrefs runs the interactive huh form, pre-filled from stored values.
func promptPrefs(current *model.Preferences) (income, goal *float64, risk string, err error) {
	var incomeStr, goalStr string
	risk = model.RiskModerate
	if current != nil {
		if current.MonthlyIncome != nil {
			incomeStr = strconv.FormatFloat(*current.MonthlyIncome, 'f', -1, 64)
		}
		if current.SavingsGoal != nil {
			goalStr = strconv.FormatFloat(*current.SavingsGoal, 'f', -1, 64)
		}
		if current.RiskTolerance != "" {
			risk = current.RiskTolerance
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income").
				Description("Used to derive your budget limit").
				Value(&incomeStr).
				Validate(validateAmount),
			huh.NewInput().
				Title("Monthly savings goal").
				Description("Leave blank to skip").
				Value(&goalStr).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Risk tolerance").
				Options(
					huh.NewOption("Conservative", model.RiskConservative),
					huh.NewOption("Moderate", model.RiskModerate),
					huh.NewOption("Aggressive", model.RiskAggressive),
				).
				Value(&risk),
		),
	)

	if err := form.Run(); err != nil {
		return nil, nil, "", fmt.Errorf("preferences form: %w", err)
	}

	if incomeStr != "" {
		v, _ := strconv.ParseFloat(incomeStr, 64)
		income = &v
	}
	if goalStr != "" {
		v, _ := strconv.ParseFloat(goalStr, 64)
		goal = &v
	}
	return income, goal, risk, nil
}

func validateAmount(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func validRisk(s string) bool {
	switch s {
	case model.RiskConservative, model.RiskModerate, model.RiskAggressive:
		return true
	}
	return false
}

func printPrefs(p *model.Preferences) {
	if p == nil {
		fmt.Printf("  %s\n", cli.RenderMuted("No preferences stored yet."))
		return
	}
	if p.MonthlyIncome != nil {
		fmt.Printf("  Monthly income: %s\n", cli.FormatMoney(*p.MonthlyIncome))
	} else {
		fmt.Println("  Monthly income: not set")
	}
	if p.SavingsGoal != nil {
		fmt.Printf("  Savings goal:   %s\n", cli.FormatMoney(*p.SavingsGoal))
	} else {
		fmt.Println("  Savings goal:   not set")
	}
	if p.RiskTolerance != "" {
		fmt.Printf("  Risk tolerance: %s\n", p.RiskTolerance)
	} else {
		fmt.Println("  Risk tolerance: not set")
	}
}
