// Package tui provides the interactive Bubble Tea dashboard for spendwell.
package tui

import (
	"fmt"
	"strings"
	"time"

	"spendwell/internal/budget"
	"spendwell/internal/cli"
	"spendwell/internal/config"
	"spendwell/internal/model"
	"spendwell/internal/report"
	"spendwell/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the store read finishes.
type DataLoadedMsg struct {
	Summary    report.Summary
	Projection *model.BudgetProjection
	Recent     []model.Transaction
	Anomalies  []model.Transaction
	LoadTime   time.Duration
}

// LoadFailedMsg is sent when the store read fails.
type LoadFailedMsg struct {
	Err error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	cfg    config.Config
	userID int64
	days   int

	loaded   bool
	loadErr  error
	loadTime time.Duration

	summary    report.Summary
	projection *model.BudgetProjection
	anomalies  []model.Transaction

	recentTable table.Model

	width   int
	height  int
	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	recentRows       = 8
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.ColorBorder).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
	valueStyle = lipgloss.NewStyle().Foreground(cli.ColorText).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
)

// NewApp creates the dashboard model.
func NewApp(cfg config.Config, userID int64, days int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	cols := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Category", Width: 14},
		{Title: "Method", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Score", Width: 7},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(recentRows),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(cli.ColorAccent).Bold(true).
		BorderForeground(cli.ColorBorder)
	st.Selected = st.Selected.Foreground(cli.ColorText).Background(cli.ColorBorder)
	t.SetStyles(st)

	return App{
		cfg:         cfg,
		userID:      userID,
		days:        days,
		spinner:     sp,
		recentTable: t,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.cfg, a.userID, a.days),
		a.spinner.Tick,
		tickCmd(),
	)
}

// loadDataCmd reads everything the dashboard needs in one store pass.
func loadDataCmd(cfg config.Config, userID int64, days int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		st, err := store.Open(config.StorePath(cfg))
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		defer func() { _ = st.Close() }()

		txs, err := st.UserTransactions(userID, days)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		proj, err := budget.NewProjector(st, cfg).Project(userID)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		var anomalies []model.Transaction
		for _, tx := range txs {
			if tx.IsAnomaly {
				anomalies = append(anomalies, tx)
			}
		}

		recent := txs
		if len(recent) > 50 {
			recent = recent[:50]
		}

		return DataLoadedMsg{
			Summary:    report.Build(txs, days),
			Projection: proj,
			Recent:     recent,
			Anomalies:  anomalies,
			LoadTime:   time.Since(start),
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "r":
			a.loaded = false
			a.loadErr = nil
			return a, tea.Batch(loadDataCmd(a.cfg, a.userID, a.days), a.spinner.Tick)
		}

	case tickMsg:
		// Periodic refresh keeps the dashboard current while idle.
		return a, tea.Batch(loadDataCmd(a.cfg, a.userID, a.days), tickCmd())

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = nil
		a.loadTime = msg.LoadTime
		a.summary = msg.Summary
		a.projection = msg.Projection
		a.anomalies = msg.Anomalies
		a.recentTable.SetRows(transactionRows(msg.Recent))
		return a, nil

	case LoadFailedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.recentTable, cmd = a.recentTable.Update(msg)
	return a, cmd
}

func transactionRows(txs []model.Transaction) []table.Row {
	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		score := "-"
		if tx.IsAnomaly {
			score = cli.FormatScore(tx.AnomalyScore)
		}
		rows = append(rows, table.Row{
			tx.Timestamp.Local().Format("2006-01-02"),
			tx.Category,
			tx.PaymentMethod,
			cli.FormatMoney(tx.Amount),
			score,
		})
	}
	return rows
}

// View implements tea.Model.
func (a App) View() string {
	if a.width > 0 && a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d)\n", a.width, minTerminalWidth)
	}

	if !a.loaded {
		return fmt.Sprintf("\n  %s Loading spending data...\n", a.spinner.View())
	}
	if a.loadErr != nil {
		return fmt.Sprintf("\n  %s\n\n  %s\n",
			cli.RenderAlert("Failed to load data: "+a.loadErr.Error()),
			helpStyle.Render("r refresh · q quit"))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("spendwell · last %d days", a.days)))
	b.WriteString("\n\n")

	b.WriteString(a.summaryCard())
	b.WriteString("\n")
	b.WriteString(a.budgetCard())
	b.WriteString("\n")
	b.WriteString(a.recentCard())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/↓ browse · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (a App) summaryCard() string {
	line := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		line("Transactions", cli.FormatNumber(int64(a.summary.Transactions))),
		line("Total spend", cli.FormatMoney(a.summary.Total)),
		line("Monthly average", cli.FormatMoney(a.summary.MonthlyAverage)),
	}

	if a.summary.Anomalies > 0 {
		lines = append(lines, line("Anomalies", cli.RenderAlert(cli.FormatNumber(int64(a.summary.Anomalies)))))
	} else {
		lines = append(lines, line("Anomalies", cli.RenderOK("none")))
	}

	if top := a.summary.TopCategories(); len(top) > 0 {
		n := len(top)
		if n > 3 {
			n = 3
		}
		parts := make([]string, 0, n)
		for _, cat := range top[:n] {
			parts = append(parts, fmt.Sprintf("%s %s", cat, cli.FormatPercent(a.summary.CategoryPct[cat])))
		}
		lines = append(lines, line("Top categories", strings.Join(parts, "  ")))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (a App) budgetCard() string {
	if a.projection == nil {
		return cardStyle.Render(
			labelStyle.Render("Budget          ") +
				cli.RenderMuted("no monthly income set · run `spendwell prefs`"))
	}

	p := a.projection
	frac := 0.0
	if p.BudgetLimit > 0 {
		frac = p.ProjectedTotal / p.BudgetLimit
	}

	status := cli.RenderOK("on track")
	if p.WillExceed {
		status = cli.RenderAlert(fmt.Sprintf("over by %s", cli.FormatMoney(p.ExcessAmount)))
	} else if frac > 0.8 {
		status = cli.RenderWarn("close to limit")
	}

	lines := []string{
		labelStyle.Render(fmt.Sprintf("%-16s", "Month to date")) + valueStyle.Render(cli.FormatMoney(p.CurrentSpending)),
		labelStyle.Render(fmt.Sprintf("%-16s", "Projected")) +
			valueStyle.Render(cli.FormatMoney(p.ProjectedTotal)) +
			labelStyle.Render(fmt.Sprintf("  of %s limit", cli.FormatMoney(p.BudgetLimit))),
		cli.RenderBar(40, frac) + "  " + status,
		labelStyle.Render(fmt.Sprintf("%d days remaining in the month", p.DaysRemaining)),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (a App) recentCard() string {
	header := headerLine("Recent transactions")
	if a.summary.Transactions == 0 {
		return header + "\n" + cli.RenderMuted("  Nothing recorded yet · run `spendwell add`") + "\n"
	}
	return header + "\n" + a.recentTable.View() + "\n"
}

func headerLine(s string) string {
	return "  " + lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent).Render(s)
}
