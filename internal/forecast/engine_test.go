package forecast

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"spendwell/internal/config"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewEngine(st, config.DefaultConfig()), st
}

func seedDailySpend(t *testing.T, st *store.Store, userID int64, days int, category string, amount float64) {
	t.Helper()
	for i := 1; i <= days; i++ {
		_, err := st.AddTransaction(model.Transaction{
			UserID: userID, Amount: amount, Category: category, PaymentMethod: "cash",
			Timestamp: time.Now().AddDate(0, 0, -i),
		})
		if err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
}

func TestForecastExpensesInsufficientData(t *testing.T) {
	e, st := newTestEngine(t)
	seedDailySpend(t, st, 1, 29, "food", 100)

	res, err := e.ForecastExpenses(1)
	if err != nil {
		t.Fatalf("ForecastExpenses: %v", err)
	}
	if res.OK {
		t.Fatal("forecast reported success below the minimum history")
	}
	if res.Message != MsgNotEnoughData {
		t.Fatalf("message = %q, want %q", res.Message, MsgNotEnoughData)
	}
	if len(res.Points) != 0 {
		t.Fatalf("got %d points on the failure path, want 0", len(res.Points))
	}
}

func TestForecastExpensesHorizon(t *testing.T) {
	e, st := newTestEngine(t)
	seedDailySpend(t, st, 1, 45, "food", 150)

	res, err := e.ForecastExpenses(1)
	if err != nil {
		t.Fatalf("ForecastExpenses: %v", err)
	}
	if !res.OK {
		t.Fatalf("forecast failed: %s", res.Message)
	}
	if res.Model != ModelName {
		t.Fatalf("model = %q, want %q", res.Model, ModelName)
	}
	if res.RunID == "" {
		t.Fatal("forecast run has no run id")
	}
	if len(res.Points) != 30 {
		t.Fatalf("got %d points, want 30", len(res.Points))
	}

	lastObserved := time.Now().UTC().AddDate(0, 0, -1)
	lastDay := time.Date(lastObserved.Year(), lastObserved.Month(), lastObserved.Day(), 0, 0, 0, 0, time.UTC)

	var total float64
	for i, p := range res.Points {
		if !p.Date.After(lastDay) {
			t.Fatalf("point %d dated %s, want strictly after last observed day %s", i, p.Date, lastDay)
		}
		if p.LowerBound < 0 || p.PredictedAmount < 0 || p.UpperBound < 0 {
			t.Fatalf("point %d has negative values: %+v", i, p)
		}
		if p.LowerBound > p.PredictedAmount || p.PredictedAmount > p.UpperBound {
			t.Fatalf("point %d bounds out of order: %+v", i, p)
		}
		total += p.PredictedAmount
	}
	if math.Abs(total-res.TotalPredicted) > 1e-9 {
		t.Fatalf("TotalPredicted = %v, want sum of points %v", res.TotalPredicted, total)
	}

	// The run is persisted to the append-only log.
	count, err := st.ForecastCount(1)
	if err != nil {
		t.Fatalf("ForecastCount: %v", err)
	}
	if count != 30 {
		t.Fatalf("persisted forecast rows = %d, want 30", count)
	}
}

func TestForecastByCategoryGate(t *testing.T) {
	e, st := newTestEngine(t)
	seedDailySpend(t, st, 1, 20, "food", 100)

	res, err := e.ForecastByCategory(1)
	if err != nil {
		t.Fatalf("ForecastByCategory: %v", err)
	}
	if res.OK {
		t.Fatal("category forecast reported success below the minimum history")
	}
}

func TestForecastByCategoryOmitsSparse(t *testing.T) {
	e, st := newTestEngine(t)
	seedDailySpend(t, st, 1, 40, "food", 100)
	seedDailySpend(t, st, 1, 5, "travel", 900)

	res, err := e.ForecastByCategory(1)
	if err != nil {
		t.Fatalf("ForecastByCategory: %v", err)
	}
	if !res.OK {
		t.Fatalf("category forecast failed: %s", res.Message)
	}

	if _, ok := res.Categories["travel"]; ok {
		t.Fatal("sparse category reported, want silent omission")
	}
	food, ok := res.Categories["food"]
	if !ok {
		t.Fatal("food category missing from forecast")
	}

	// 100 per day, 30-day horizon.
	if math.Abs(food.DailyAverage-100) > 1e-9 {
		t.Fatalf("daily average = %v, want 100", food.DailyAverage)
	}
	if math.Abs(food.PredictedTotal-3000) > 1e-9 {
		t.Fatalf("predicted total = %v, want 3000", food.PredictedTotal)
	}
	if food.Volatility != 0 {
		t.Fatalf("volatility = %v for a flat series, want 0", food.Volatility)
	}
	if math.Abs(res.TotalPredicted-food.PredictedTotal) > 1e-9 {
		t.Fatalf("TotalPredicted = %v, want %v", res.TotalPredicted, food.PredictedTotal)
	}
}
