// Package ingest bulk-loads transactions from CSV files into the store.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"spendwell/internal/model"
	"spendwell/internal/store"
)

// Expected columns, matched case-insensitively by header name:
// amount, category, payment_method, description (optional), timestamp.
var requiredColumns = []string{"amount", "category", "payment_method", "timestamp"}

// Stats accumulates the outcome of one import run.
type Stats struct {
	Rows     int
	Imported int
	Skipped  int
	Failures map[int]string // row number -> reason
}

// NewStats creates an empty Stats accumulator.
func NewStats() *Stats {
	return &Stats{Failures: make(map[int]string)}
}

func (s *Stats) addFailure(row int, reason string) {
	s.Skipped++
	s.Failures[row] = reason
}

// Log writes the run outcome to the logger.
func (s *Stats) Log(logger *slog.Logger) {
	logger.Info("import finished", "rows", s.Rows, "imported", s.Imported, "skipped", s.Skipped)
	for row, reason := range s.Failures {
		logger.Warn("row skipped", "row", row, "reason", reason)
	}
}

// ImportFile reads a CSV file of transactions and inserts them for the
// given user. Bad rows are skipped and counted, not fatal; a malformed
// header or unreadable file is.
func ImportFile(st *store.Store, logger *slog.Logger, userID int64, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	logger.Info("importing transactions", "file", path, "user", userID)
	return Import(st, logger, userID, f)
}

// Import reads CSV transaction rows from r and inserts them.
func Import(st *store.Store, logger *slog.Logger, userID int64, r io.Reader) (*Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewStats(), nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header", col)
		}
	}

	stats := NewStats()
	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return stats, fmt.Errorf("reading row %d: %w", stats.Rows+2, readErr)
		}
		stats.Rows++
		rowNum := stats.Rows + 1 // 1-based, counting the header

		amount, err := strconv.ParseFloat(safeGet(record, colIndex["amount"]), 64)
		if err != nil || amount <= 0 {
			stats.addFailure(rowNum, "invalid amount")
			continue
		}
		ts, err := parseTimestamp(safeGet(record, colIndex["timestamp"]))
		if err != nil {
			stats.addFailure(rowNum, "invalid timestamp")
			continue
		}
		category := safeGet(record, colIndex["category"])
		method := safeGet(record, colIndex["payment_method"])
		if category == "" || method == "" {
			stats.addFailure(rowNum, "missing category or payment method")
			continue
		}

		var desc string
		if i, ok := colIndex["description"]; ok {
			desc = safeGet(record, i)
		}

		if _, err := st.AddTransaction(model.Transaction{
			UserID:        userID,
			Amount:        amount,
			Category:      category,
			PaymentMethod: method,
			Description:   desc,
			Timestamp:     ts,
		}); err != nil {
			return stats, fmt.Errorf("inserting row %d: %w", rowNum, err)
		}
		stats.Imported++
	}

	stats.Log(logger)
	return stats, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func safeGet(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
