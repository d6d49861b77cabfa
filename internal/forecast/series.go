// Package forecast projects future spending from transaction history.
package forecast

import (
	"sort"
	"time"

	"spendwell/internal/model"
)

// DailyTotal is one day's aggregate spend.
type DailyTotal struct {
	Date   time.Time
	Amount float64
}

// DailySeries aggregates transactions into per-day totals, sorted by date
// ascending. Days with no transactions are absent, not zero-filled.
func DailySeries(txs []model.Transaction) []DailyTotal {
	byDay := make(map[time.Time]float64)
	for _, tx := range txs {
		d := tx.Timestamp.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] += tx.Amount
	}

	series := make([]DailyTotal, 0, len(byDay))
	for day, amount := range byDay {
		series = append(series, DailyTotal{Date: day, Amount: amount})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
