package cmd

import (
	"fmt"
	"sort"

	"spendwell/internal/cli"
	"spendwell/internal/forecast"

	"github.com/spf13/cobra"
)

var flagForecastByCategory bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project spending over the coming weeks",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastByCategory, "by-category", false, "Per-category projection instead of a daily series")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	engine := forecast.NewEngine(st, cfg)
	userID := resolveUser(cfg)

	if flagForecastByCategory {
		return runCategoryForecast(engine, userID)
	}

	result, err := engine.ForecastExpenses(userID)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}
	if !result.OK {
		fmt.Printf("  %s\n", cli.RenderMuted(result.Message))
		fmt.Printf("  Need at least %d transactions in the last %d days.\n",
			cfg.Analysis.MinForecastRecords, cfg.Analysis.LookbackDays)
		return nil
	}

	fmt.Println(cli.RenderTitle(fmt.Sprintf("Next %d days · %s", len(result.Points), cli.FormatMoney(result.TotalPredicted))))
	fmt.Println()

	t := cli.Table{
		Headers: []string{"Date", "Predicted", "Low", "High"},
	}
	for _, p := range result.Points {
		t.Rows = append(t.Rows, []string{
			p.Date.Format("2006-01-02"),
			cli.FormatMoney(p.PredictedAmount),
			cli.FormatMoney(p.LowerBound),
			cli.FormatMoney(p.UpperBound),
		})
	}
	fmt.Print(cli.RenderTable(t))

	if !flagQuiet {
		fmt.Printf("\n  Model: %s · run %s\n", result.Model, result.RunID)
	}
	return nil
}

func runCategoryForecast(engine *forecast.Engine, userID int64) error {
	result, err := engine.ForecastByCategory(userID)
	if err != nil {
		return fmt.Errorf("forecasting by category: %w", err)
	}
	if !result.OK {
		fmt.Printf("  %s\n", cli.RenderMuted(result.Message))
		return nil
	}
	if len(result.Categories) == 0 {
		fmt.Printf("  %s\n", cli.RenderMuted("No category has enough history yet."))
		return nil
	}

	cats := make([]string, 0, len(result.Categories))
	for c := range result.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		return result.Categories[cats[i]].PredictedTotal > result.Categories[cats[j]].PredictedTotal
	})

	fmt.Println(cli.RenderTitle(fmt.Sprintf("Category outlook · %s total", cli.FormatMoney(result.TotalPredicted))))
	fmt.Println()

	t := cli.Table{
		Headers: []string{"Category", "Projected", "Daily avg", "Volatility"},
	}
	for _, c := range cats {
		f := result.Categories[c]
		t.Rows = append(t.Rows, []string{
			c,
			cli.FormatMoney(f.PredictedTotal),
			cli.FormatMoney(f.DailyAverage),
			cli.FormatMoney(f.Volatility),
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
