package budget

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"spendwell/internal/config"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

func newTestProjector(t *testing.T, now time.Time) (*Projector, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	p := NewProjector(st, config.DefaultConfig())
	p.Now = func() time.Time { return now }
	return p, st
}

func TestProjectNoIncome(t *testing.T) {
	p, st := newTestProjector(t, time.Now())

	proj, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj != nil {
		t.Fatalf("projection = %+v without income on file, want nil", proj)
	}

	// Preferences without income still yield no projection.
	goal := 5000.0
	if err := st.SetPreferences(1, nil, &goal, model.RiskModerate); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}
	proj, err = p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj != nil {
		t.Fatalf("projection = %+v without income on file, want nil", proj)
	}
}

func TestProjectLinearExtrapolation(t *testing.T) {
	// Day 10 of a 30-day month, 20000 spent, income 60000:
	// daily average 2000, 20 days remain, projection 60000 vs limit 30000.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	p, st := newTestProjector(t, now)

	income := 60000.0
	if err := st.SetPreferences(1, &income, nil, ""); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}
	for i := 0; i < 10; i++ {
		_, err := st.AddTransaction(model.Transaction{
			UserID: 1, Amount: 2000, Category: "food", PaymentMethod: "cash",
			Timestamp: now.AddDate(0, 0, -i),
		})
		if err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}

	proj, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj == nil {
		t.Fatal("Project returned nil with income on file")
	}

	if math.Abs(proj.CurrentSpending-20000) > 1e-9 {
		t.Fatalf("current spending = %v, want 20000", proj.CurrentSpending)
	}
	if math.Abs(proj.ProjectedTotal-60000) > 1e-9 {
		t.Fatalf("projected total = %v, want 60000", proj.ProjectedTotal)
	}
	if math.Abs(proj.BudgetLimit-30000) > 1e-9 {
		t.Fatalf("budget limit = %v, want 30000", proj.BudgetLimit)
	}
	if !proj.WillExceed {
		t.Fatal("WillExceed = false, want true")
	}
	if math.Abs(proj.ExcessAmount-30000) > 1e-9 {
		t.Fatalf("excess = %v, want 30000", proj.ExcessAmount)
	}
	if proj.DaysRemaining != 20 {
		t.Fatalf("days remaining = %d, want 20", proj.DaysRemaining)
	}
}

func TestProjectZeroSpend(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	p, st := newTestProjector(t, now)

	income := 60000.0
	if err := st.SetPreferences(1, &income, nil, ""); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}

	proj, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj == nil {
		t.Fatal("Project returned nil with income on file")
	}
	if proj.CurrentSpending != 0 || proj.ProjectedTotal != 0 {
		t.Fatalf("spend/projection = (%v, %v) with no transactions, want zeros", proj.CurrentSpending, proj.ProjectedTotal)
	}
	if proj.WillExceed || proj.ExcessAmount != 0 {
		t.Fatalf("exceed = (%v, %v), want (false, 0)", proj.WillExceed, proj.ExcessAmount)
	}
}

func TestProjectLastDayOfMonthArithmetic(t *testing.T) {
	// February 2024 is a leap month with 29 days.
	now := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	p, st := newTestProjector(t, now)

	income := 10000.0
	if err := st.SetPreferences(1, &income, nil, ""); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}

	proj, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj.DaysRemaining != 19 {
		t.Fatalf("days remaining = %d on Feb 10 2024, want 19", proj.DaysRemaining)
	}
}

func TestProjectExcludesPreviousMonth(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	p, st := newTestProjector(t, now)

	income := 60000.0
	if err := st.SetPreferences(1, &income, nil, ""); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}
	// One transaction last month, one this month.
	if _, err := st.AddTransaction(model.Transaction{
		UserID: 1, Amount: 9999, Category: "rent", PaymentMethod: "upi",
		Timestamp: time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := st.AddTransaction(model.Transaction{
		UserID: 1, Amount: 500, Category: "food", PaymentMethod: "cash",
		Timestamp: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	proj, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if proj.CurrentSpending != 500 {
		t.Fatalf("current spending = %v, want 500 (previous month excluded)", proj.CurrentSpending)
	}
}
