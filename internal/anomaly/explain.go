package anomaly

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"spendwell/internal/feature"
	"spendwell/internal/model"
)

// minCategoryHistory is how many same-category precedents are needed
// before a mean/deviation band is meaningful.
const minCategoryHistory = 3

// degenerateBandTolerance guards the flat-history case: with a zero
// deviation band, the amount must exceed the mean by at least 1% before
// it reads as "higher than usual".
const degenerateBandTolerance = 0.01

// Explain produces a short justification for a flagged transaction from
// the user's same-category history. Pure function, no side effects.
func Explain(tx model.Transaction, history []model.Transaction) string {
	cat := feature.Normalize(tx.Category)

	var amounts []float64
	for _, h := range history {
		if feature.Normalize(h.Category) == cat {
			amounts = append(amounts, h.Amount)
		}
	}
	if len(amounts) >= minCategoryHistory {
		mean, err := stats.Mean(amounts)
		if err == nil {
			sigma, _ := stats.StandardDeviationPopulation(amounts)
			if exceedsBand(tx.Amount, mean, sigma) {
				return fmt.Sprintf("This %s expense (%.2f) is significantly higher than your average (%.2f)",
					tx.Category, tx.Amount, mean)
			}
			if tx.Amount < mean-2*sigma && sigma > 0 {
				return fmt.Sprintf("This %s expense (%.2f) is unusually low for this category", tx.Category, tx.Amount)
			}
		}
	}
	return "This expense pattern is unusual based on your history"
}

func exceedsBand(amount, mean, sigma float64) bool {
	if sigma > 0 {
		return amount > mean+2*sigma
	}
	return amount > mean+degenerateBandTolerance*mean && amount > mean
}
