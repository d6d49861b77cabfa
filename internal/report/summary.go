// Package report aggregates transaction history into spending summaries.
package report

import (
	"sort"

	"spendwell/internal/feature"
	"spendwell/internal/model"
)

// Summary is the aggregate view of a user's recent spending.
type Summary struct {
	Transactions   int
	Total          float64
	MonthlyAverage float64
	ByCategory     map[string]float64
	CategoryPct    map[string]float64
	ByPayment      map[string]float64
	Anomalies      int
}

// Build computes a summary over a transaction window of `days` days.
// The monthly average divides the total across 30-day months in the
// window; zero totals resolve to zero rather than dividing.
func Build(txs []model.Transaction, days int) Summary {
	s := Summary{
		Transactions: len(txs),
		ByCategory:   make(map[string]float64),
		CategoryPct:  make(map[string]float64),
		ByPayment:    make(map[string]float64),
	}

	for _, tx := range txs {
		s.Total += tx.Amount
		s.ByCategory[feature.Normalize(tx.Category)] += tx.Amount
		s.ByPayment[feature.Normalize(tx.PaymentMethod)] += tx.Amount
		if tx.IsAnomaly {
			s.Anomalies++
		}
	}

	months := float64(days) / 30
	if months >= 1 && s.Total > 0 {
		s.MonthlyAverage = s.Total / months
	} else {
		s.MonthlyAverage = s.Total
	}

	if s.Total > 0 {
		for cat, amount := range s.ByCategory {
			s.CategoryPct[cat] = amount / s.Total * 100
		}
	}
	return s
}

// TopCategories returns category names sorted by spend, highest first.
func (s Summary) TopCategories() []string {
	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if s.ByCategory[cats[i]] != s.ByCategory[cats[j]] {
			return s.ByCategory[cats[i]] > s.ByCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}
