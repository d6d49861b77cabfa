package forecast

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"spendwell/internal/config"
	"spendwell/internal/feature"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

// ModelName identifies the full-horizon forecasting model in results.
const ModelName = "seasonal-trend"

// MsgNotEnoughData is the structured failure message for the minimum
// history gate.
const MsgNotEnoughData = "not enough data for forecasting"

// Engine produces spending forecasts from the transaction store. Like the
// anomaly detector it keeps no fitted state between calls.
type Engine struct {
	store *store.Store
	cfg   config.AnalysisConfig
}

// NewEngine builds a forecasting engine over the given store and config.
func NewEngine(st *store.Store, cfg config.Config) *Engine {
	return &Engine{store: st, cfg: cfg.Analysis}
}

// ForecastExpenses fits the seasonal model to the user's daily spend and
// returns one point per horizon day, all dated strictly after the last
// observed transaction. The run is persisted to the append-only forecasts
// log under a fresh run id.
func (e *Engine) ForecastExpenses(userID int64) (model.ForecastResult, error) {
	txs, err := e.store.UserTransactions(userID, e.cfg.LookbackDays)
	if err != nil {
		return model.ForecastResult{}, fmt.Errorf("loading history: %w", err)
	}
	if len(txs) < e.cfg.MinForecastRecords {
		return model.ForecastResult{Message: MsgNotEnoughData}, nil
	}

	series := DailySeries(txs)
	m := FitSeasonal(series, e.cfg.ChangepointPriorScale)

	lastDay := series[len(series)-1].Date
	points := make([]model.ForecastPoint, 0, e.cfg.HorizonDays)
	var total float64
	for i := 1; i <= e.cfg.HorizonDays; i++ {
		day := lastDay.AddDate(0, 0, i)
		point, lower, upper := m.Predict(day)
		points = append(points, model.ForecastPoint{
			Date:            day,
			PredictedAmount: point,
			LowerBound:      lower,
			UpperBound:      upper,
		})
		total += point
	}

	runID := uuid.NewString()
	if err := e.store.SaveForecast(userID, runID, points); err != nil {
		return model.ForecastResult{}, fmt.Errorf("persisting forecast: %w", err)
	}

	return model.ForecastResult{
		OK:             true,
		RunID:          runID,
		Points:         points,
		TotalPredicted: total,
		Model:          ModelName,
	}, nil
}

// ForecastByCategory projects each category's spend as daily mean times
// horizon, with the population deviation of its daily totals reported as
// volatility. Categories below the per-category minimum are omitted.
func (e *Engine) ForecastByCategory(userID int64) (model.CategoryForecastResult, error) {
	txs, err := e.store.UserTransactions(userID, e.cfg.LookbackDays)
	if err != nil {
		return model.CategoryForecastResult{}, fmt.Errorf("loading history: %w", err)
	}
	if len(txs) < e.cfg.MinForecastRecords {
		return model.CategoryForecastResult{Message: MsgNotEnoughData}, nil
	}

	byCategory := make(map[string][]model.Transaction)
	for _, tx := range txs {
		cat := feature.Normalize(tx.Category)
		byCategory[cat] = append(byCategory[cat], tx)
	}

	result := model.CategoryForecastResult{
		OK:         true,
		Categories: make(map[string]model.CategoryForecast),
	}
	for cat, catTxs := range byCategory {
		if len(catTxs) < e.cfg.MinCategoryRecords {
			continue
		}
		daily := make([]float64, 0)
		for _, d := range DailySeries(catTxs) {
			daily = append(daily, d.Amount)
		}

		mean, err := stats.Mean(daily)
		if err != nil {
			continue
		}
		sigma, _ := stats.StandardDeviationPopulation(daily)

		result.Categories[cat] = model.CategoryForecast{
			PredictedTotal: mean * float64(e.cfg.HorizonDays),
			DailyAverage:   mean,
			Volatility:     sigma,
		}
		result.TotalPredicted += mean * float64(e.cfg.HorizonDays)
	}
	return result, nil
}
