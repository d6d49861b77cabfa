package anomaly

import (
	"path/filepath"
	"testing"
	"time"

	"spendwell/internal/config"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

func newTestDetector(t *testing.T) (*Detector, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewDetector(st, config.DefaultConfig()), st
}

func seedTransactions(t *testing.T, st *store.Store, userID int64, amounts []float64) []int64 {
	t.Helper()
	ts := time.Now().AddDate(0, 0, -5)
	ids := make([]int64, len(amounts))
	for i, a := range amounts {
		id, err := st.AddTransaction(model.Transaction{
			UserID: userID, Amount: a, Category: "food", PaymentMethod: "cash",
			Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
		ids[i] = id
	}
	return ids
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDetectColdStart(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, repeat(100, 9))

	flagged, err := d.Detect(1)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("flagged %d transactions below the minimum history, want 0", len(flagged))
	}
}

func TestDetectFlagsOutlierAndWritesBack(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, repeat(100, 19))
	outlierID := seedTransactions(t, st, 1, []float64{10000})[0]

	flagged, err := d.Detect(1)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("flagged %d transactions, want exactly the outlier", len(flagged))
	}
	if flagged[0].ID != outlierID {
		t.Fatalf("flagged id = %d, want outlier %d", flagged[0].ID, outlierID)
	}
	if flagged[0].AnomalyScore < 0 {
		t.Fatalf("anomaly score = %v, want >= 0", flagged[0].AnomalyScore)
	}

	// Status is persisted per row, for flagged and unflagged alike.
	tx, err := st.Transaction(outlierID)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if !tx.IsAnomaly {
		t.Fatal("outlier not marked anomalous in the store")
	}
	all, err := st.UserTransactions(1, 90)
	if err != nil {
		t.Fatalf("UserTransactions: %v", err)
	}
	for _, tx := range all {
		if tx.AnomalyScore <= 0 {
			t.Fatalf("transaction %d has score %v after batch run, want > 0", tx.ID, tx.AnomalyScore)
		}
	}
}

func TestDetectDeterministicAcrossRuns(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, []float64{
		90, 95, 100, 105, 110, 92, 97, 102, 107, 112,
		88, 93, 98, 103, 108, 5000,
	})

	first, err := d.Detect(1)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	second, err := d.Detect(1)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("flag counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].AnomalyScore != second[i].AnomalyScore {
			t.Fatalf("run results differ at %d: (%d, %v) vs (%d, %v)",
				i, first[i].ID, first[i].AnomalyScore, second[i].ID, second[i].AnomalyScore)
		}
	}
}

func TestCheckNewInsufficientHistory(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, repeat(100, 8))
	target := seedTransactions(t, st, 1, []float64{9999})[0]

	res, err := d.CheckNew(1, target)
	if err != nil {
		t.Fatalf("CheckNew: %v", err)
	}
	if res.IsAnomaly || res.Score != 0 {
		t.Fatalf("result = (%v, %v) below minimum history, want (false, 0)", res.IsAnomaly, res.Score)
	}
	if res.Explanation != MsgInsufficientData {
		t.Fatalf("explanation = %q, want %q", res.Explanation, MsgInsufficientData)
	}
}

func TestCheckNewNotFound(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, repeat(100, 15))

	res, err := d.CheckNew(1, 424242)
	if err != nil {
		t.Fatalf("CheckNew: %v", err)
	}
	if res.IsAnomaly || res.Score != 0 {
		t.Fatalf("result = (%v, %v) for missing id, want (false, 0)", res.IsAnomaly, res.Score)
	}
	if res.Explanation != MsgNotFound {
		t.Fatalf("explanation = %q, want %q", res.Explanation, MsgNotFound)
	}
}

func TestCheckNewFlagsOutlier(t *testing.T) {
	d, st := newTestDetector(t)
	// 18 flat plus one slightly different point, so trees have a split.
	seedTransactions(t, st, 1, repeat(100, 18))
	seedTransactions(t, st, 1, []float64{101})
	target := seedTransactions(t, st, 1, []float64{10000})[0]

	res, err := d.CheckNew(1, target)
	if err != nil {
		t.Fatalf("CheckNew: %v", err)
	}
	if !res.IsAnomaly {
		t.Fatal("100x outlier not flagged by incremental check")
	}
	if res.Score <= 0 {
		t.Fatalf("score = %v, want > 0", res.Score)
	}
	if res.Explanation == "" {
		t.Fatal("flagged result carries no explanation")
	}

	// The verdict is persisted on the submission path.
	tx, err := st.Transaction(target)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if !tx.IsAnomaly || tx.AnomalyScore != res.Score {
		t.Fatalf("store status = (%v, %v), want (%v, %v)", tx.IsAnomaly, tx.AnomalyScore, true, res.Score)
	}
}

func TestCheckNewTypicalTransactionNotFlagged(t *testing.T) {
	d, st := newTestDetector(t)
	seedTransactions(t, st, 1, repeat(100, 20))
	target := seedTransactions(t, st, 1, []float64{100})[0]

	res, err := d.CheckNew(1, target)
	if err != nil {
		t.Fatalf("CheckNew: %v", err)
	}
	if res.IsAnomaly {
		t.Fatal("a transaction identical to the whole history was flagged")
	}
}
