package anomaly

import (
	"strings"
	"testing"

	"spendwell/internal/model"
)

func categoryHistory(category string, amounts ...float64) []model.Transaction {
	txs := make([]model.Transaction, len(amounts))
	for i, a := range amounts {
		txs[i] = model.Transaction{Amount: a, Category: category}
	}
	return txs
}

func TestExplainHigherThanUsual(t *testing.T) {
	history := categoryHistory("food", 100, 120, 90, 110)
	got := Explain(model.Transaction{Amount: 900, Category: "food"}, history)
	if !strings.Contains(got, "significantly higher") {
		t.Fatalf("explanation = %q, want higher-than-usual message", got)
	}
}

func TestExplainUnusuallyLow(t *testing.T) {
	history := categoryHistory("rent", 5000, 5200, 4800, 5100)
	got := Explain(model.Transaction{Amount: 100, Category: "rent"}, history)
	if !strings.Contains(got, "unusually low") {
		t.Fatalf("explanation = %q, want unusually-low message", got)
	}
}

func TestExplainFlatHistoryIgnoresFloatNoise(t *testing.T) {
	// mean 100, sigma 0: 100.01 sits above mean+2*sigma but must not
	// read as "higher than usual".
	history := categoryHistory("food", 100, 100, 100, 100)

	got := Explain(model.Transaction{Amount: 100.01, Category: "food"}, history)
	if strings.Contains(got, "significantly higher") {
		t.Fatalf("explanation = %q, flat history plus noise must not trigger the high branch", got)
	}

	got = Explain(model.Transaction{Amount: 500, Category: "food"}, history)
	if !strings.Contains(got, "significantly higher") {
		t.Fatalf("explanation = %q, want higher-than-usual for 5x a flat history", got)
	}
}

func TestExplainStrictExceedance(t *testing.T) {
	// mean 100, sigma 10: exactly mean+2*sigma must not trigger.
	history := categoryHistory("food", 90, 110, 90, 110)
	got := Explain(model.Transaction{Amount: 120, Category: "food"}, history)
	if strings.Contains(got, "significantly higher") {
		t.Fatalf("explanation = %q, exact band edge must not trigger", got)
	}
}

func TestExplainFewPrecedentsFallsBack(t *testing.T) {
	history := categoryHistory("travel", 100, 100)
	got := Explain(model.Transaction{Amount: 99999, Category: "travel"}, history)
	if got != "This expense pattern is unusual based on your history" {
		t.Fatalf("explanation = %q, want generic message below 3 precedents", got)
	}
}

func TestExplainOtherCategoriesIgnored(t *testing.T) {
	history := categoryHistory("food", 100, 100, 100, 100)
	got := Explain(model.Transaction{Amount: 99999, Category: "travel"}, history)
	if got != "This expense pattern is unusual based on your history" {
		t.Fatalf("explanation = %q, cross-category history must not be used", got)
	}
}
