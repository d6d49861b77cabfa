// Package feature turns transaction records into numeric feature matrices
// for anomaly scoring.
package feature

import (
	"sort"
	"strings"

	"spendwell/internal/model"
)

// numBase is the count of leading numeric columns before the one-hot blocks:
// amount, hour of day, day of week, day of month.
const numBase = 4

// Vocabulary is the closed set of category and payment-method values used
// for one-hot encoding. Building it once and sharing it between fit and
// score keeps column layout identical across calls; values outside the
// vocabulary encode as an all-zero block.
type Vocabulary struct {
	categories []string
	payments   []string
	catIndex   map[string]int
	payIndex   map[string]int
}

// NewVocabulary builds a vocabulary from the configured category and
// payment-method lists. Values are normalized to trimmed lower case,
// deduplicated, and sorted so the column order is stable.
func NewVocabulary(categories, payments []string) Vocabulary {
	v := Vocabulary{
		catIndex: make(map[string]int),
		payIndex: make(map[string]int),
	}
	v.categories = normalizeSet(categories)
	v.payments = normalizeSet(payments)
	for i, c := range v.categories {
		v.catIndex[c] = i
	}
	for i, p := range v.payments {
		v.payIndex[p] = i
	}
	return v
}

func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, val := range values {
		n := Normalize(val)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Normalize maps a raw category or payment-method string to its
// vocabulary form.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Dim is the width of an encoded feature vector.
func (v Vocabulary) Dim() int {
	return numBase + len(v.categories) + len(v.payments)
}

// Encode converts one transaction into a feature vector.
func (v Vocabulary) Encode(tx model.Transaction) []float64 {
	row := make([]float64, v.Dim())
	row[0] = tx.Amount
	row[1] = float64(tx.Timestamp.Hour())
	row[2] = float64(int(tx.Timestamp.Weekday()))
	row[3] = float64(tx.Timestamp.Day())

	if i, ok := v.catIndex[Normalize(tx.Category)]; ok {
		row[numBase+i] = 1
	}
	if i, ok := v.payIndex[Normalize(tx.PaymentMethod)]; ok {
		row[numBase+len(v.categories)+i] = 1
	}
	return row
}

// Matrix encodes a set of transactions, one row per transaction in input
// order. Empty input yields an empty matrix.
func (v Vocabulary) Matrix(txs []model.Transaction) [][]float64 {
	rows := make([][]float64, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, v.Encode(tx))
	}
	return rows
}
