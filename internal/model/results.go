package model

import "time"

// AnomalyResult is the outcome of checking a single transaction.
type AnomalyResult struct {
	TransactionID int64
	IsAnomaly     bool
	Score         float64 // >= 0, higher = more anomalous
	Explanation   string
}

// ForecastPoint is one day of a spending forecast.
// Invariant: 0 <= LowerBound <= PredictedAmount <= UpperBound.
type ForecastPoint struct {
	Date            time.Time
	PredictedAmount float64
	LowerBound      float64
	UpperBound      float64
}

// ForecastResult is the outcome of a full-horizon forecast run.
// OK is false when there is not enough history; Message says why.
type ForecastResult struct {
	OK             bool
	Message        string
	RunID          string
	Points         []ForecastPoint
	TotalPredicted float64
	Model          string
}

// CategoryForecast is the statistical projection for one category.
type CategoryForecast struct {
	PredictedTotal float64
	DailyAverage   float64
	Volatility     float64 // population stddev of the category's daily totals
}

// CategoryForecastResult is the outcome of a per-category forecast.
type CategoryForecastResult struct {
	OK             bool
	Message        string
	Categories     map[string]CategoryForecast
	TotalPredicted float64
}

// BudgetProjection holds the month-end spending projection.
// Derived per call, never persisted.
type BudgetProjection struct {
	CurrentSpending float64
	ProjectedTotal  float64
	BudgetLimit     float64
	WillExceed      bool
	ExcessAmount    float64 // >= 0
	DaysRemaining   int
}
