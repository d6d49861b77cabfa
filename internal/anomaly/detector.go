package anomaly

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"spendwell/internal/config"
	"spendwell/internal/feature"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

// Messages returned on the structured (non-error) failure paths.
const (
	MsgInsufficientData = "not enough transaction history for anomaly detection"
	MsgNotFound         = "transaction not found in recent history"
)

// Detector flags transactions that are statistically isolated from the
// rest of a user's history. It holds no model state: every call refits
// from the current history snapshot, so repeated calls are idempotent.
type Detector struct {
	store *store.Store
	cfg   config.AnalysisConfig
	vocab feature.Vocabulary
}

// NewDetector builds a detector over the given store and configuration.
func NewDetector(st *store.Store, cfg config.Config) *Detector {
	return &Detector{
		store: st,
		cfg:   cfg.Analysis,
		vocab: feature.NewVocabulary(cfg.Vocabulary.Categories, cfg.Vocabulary.PaymentMethods),
	}
}

// Detect fits the forest over the user's lookback window, writes
// (is_anomaly, score) back for every transaction, and returns the flagged
// subset. Fewer than the minimum records is a cold start: an empty result,
// not an error.
func (d *Detector) Detect(userID int64) ([]model.Transaction, error) {
	txs, err := d.store.UserTransactions(userID, d.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if len(txs) < d.cfg.MinAnomalyRecords {
		return nil, nil
	}

	var scaler feature.Scaler
	x := scaler.FitTransform(d.vocab.Matrix(txs))
	forest := FitForest(x, d.cfg.Trees, d.cfg.Seed)
	scores := forest.Scores(x)
	threshold := scoreThreshold(scores, d.cfg.Contamination)

	var flagged []model.Transaction
	for i := range txs {
		isAnomaly := scores[i] > threshold
		if err := d.store.UpdateAnomalyStatus(txs[i].ID, isAnomaly, scores[i]); err != nil {
			return nil, fmt.Errorf("writing anomaly status: %w", err)
		}
		txs[i].IsAnomaly = isAnomaly
		txs[i].AnomalyScore = scores[i]
		if isAnomaly {
			flagged = append(flagged, txs[i])
		}
	}
	return flagged, nil
}

// CheckNew scores a single transaction against a model fit on the rest of
// the user's history (transform, not refit). This is the synchronous path
// used right after a transaction is recorded.
func (d *Detector) CheckNew(userID, txID int64) (model.AnomalyResult, error) {
	result := model.AnomalyResult{TransactionID: txID}

	txs, err := d.store.UserTransactions(userID, d.cfg.LookbackDays)
	if err != nil {
		return result, fmt.Errorf("loading history: %w", err)
	}

	var target *model.Transaction
	history := make([]model.Transaction, 0, len(txs))
	for i := range txs {
		if txs[i].ID == txID {
			target = &txs[i]
			continue
		}
		history = append(history, txs[i])
	}
	if target == nil {
		result.Explanation = MsgNotFound
		return result, nil
	}
	if len(history) < d.cfg.MinAnomalyRecords {
		result.Explanation = MsgInsufficientData
		return result, nil
	}

	var scaler feature.Scaler
	xHist := scaler.FitTransform(d.vocab.Matrix(history))
	forest := FitForest(xHist, d.cfg.Trees, d.cfg.Seed)

	threshold := scoreThreshold(forest.Scores(xHist), d.cfg.Contamination)
	score := forest.Score(scaler.TransformRow(d.vocab.Encode(*target)))

	result.IsAnomaly = score > threshold
	result.Score = score
	result.Explanation = Explain(*target, history)

	if err := d.store.UpdateAnomalyStatus(txID, result.IsAnomaly, score); err != nil {
		return result, fmt.Errorf("writing anomaly status: %w", err)
	}
	return result, nil
}

// scoreThreshold derives the decision boundary from the fitted batch:
// scores strictly above the (1 - contamination) quantile are anomalous.
// Strict comparison keeps a perfectly uniform batch unflagged.
func scoreThreshold(scores []float64, contamination float64) float64 {
	if len(scores) == 0 {
		return 1
	}
	t, err := stats.Percentile(scores, 100*(1-contamination))
	if err != nil {
		return 1
	}
	return t
}
