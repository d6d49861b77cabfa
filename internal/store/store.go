// Package store provides the SQLite-backed transaction store.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spendwell/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the SQLite database holding transactions, preferences,
// and the append-only forecasts log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddTransaction inserts a transaction and returns its assigned id.
// A zero timestamp is replaced with the current time.
func (s *Store) AddTransaction(tx model.Transaction) (int64, error) {
	ts := tx.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := s.db.Exec(`INSERT INTO transactions
		(user_id, amount, category, payment_method, description, timestamp, is_anomaly, anomaly_score)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0.0)`,
		tx.UserID, tx.Amount, tx.Category, tx.PaymentMethod, tx.Description,
		ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// UserTransactions returns a user's transactions within the last `days`
// days, newest first. No matching rows yields an empty slice, not an error.
func (s *Store) UserTransactions(userID int64, days int) ([]model.Transaction, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.TransactionsSince(userID, cutoff)
}

// TransactionsSince returns a user's transactions at or after `from`,
// newest first.
func (s *Store) TransactionsSince(userID int64, from time.Time) ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT
		id, user_id, amount, category, payment_method, description, timestamp, is_anomaly, anomaly_score
		FROM transactions
		WHERE user_id = ? AND timestamp >= ?
		ORDER BY timestamp DESC, id DESC`,
		userID, from.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Transaction returns a single transaction by id, or nil when absent.
func (s *Store) Transaction(id int64) (*model.Transaction, error) {
	row := s.db.QueryRow(`SELECT
		id, user_id, amount, category, payment_method, description, timestamp, is_anomaly, anomaly_score
		FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateAnomalyStatus writes the anomaly flag and score for one
// transaction. Last write wins; there is no cross-row atomicity.
func (s *Store) UpdateAnomalyStatus(id int64, isAnomaly bool, score float64) error {
	flag := 0
	if isAnomaly {
		flag = 1
	}
	_, err := s.db.Exec(`UPDATE transactions
		SET is_anomaly = ?, anomaly_score = ?
		WHERE id = ?`, flag, score, id)
	if err != nil {
		return fmt.Errorf("updating anomaly status: %w", err)
	}
	return nil
}

// SaveForecast appends one forecast run to the forecasts log.
// Runs are append-only and never updated.
func (s *Store) SaveForecast(userID int64, runID string, points []model.ForecastPoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range points {
		_, err := tx.Exec(`INSERT INTO forecasts
			(run_id, user_id, forecast_date, predicted_amount, lower_bound, upper_bound, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 'total', ?)`,
			runID, userID, p.Date.Format("2006-01-02"),
			p.PredictedAmount, p.LowerBound, p.UpperBound, now,
		)
		if err != nil {
			return fmt.Errorf("inserting forecast point: %w", err)
		}
	}
	return tx.Commit()
}

// ForecastCount returns the number of persisted forecast rows for a user.
func (s *Store) ForecastCount(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM forecasts WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// Preferences returns the user's preferences, or nil when none are stored.
func (s *Store) Preferences(userID int64) (*model.Preferences, error) {
	row := s.db.QueryRow(`SELECT
		user_id, monthly_income, savings_goal, risk_tolerance, notifications
		FROM preferences WHERE user_id = ?`, userID)

	var p model.Preferences
	var income, goal sql.NullFloat64
	var risk sql.NullString
	var notif int
	err := row.Scan(&p.UserID, &income, &goal, &risk, &notif)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}

	if income.Valid {
		p.MonthlyIncome = &income.Float64
	}
	if goal.Valid {
		p.SavingsGoal = &goal.Float64
	}
	if risk.Valid {
		p.RiskTolerance = risk.String
	}
	p.Notifications = notif != 0
	return &p, nil
}

// SetPreferences upserts a user's preferences. Nil fields leave any
// previously stored value untouched.
func (s *Store) SetPreferences(userID int64, income, goal *float64, risk string) error {
	var riskVal any
	if risk != "" {
		riskVal = risk
	}
	_, err := s.db.Exec(`INSERT INTO preferences (user_id, monthly_income, savings_goal, risk_tolerance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_income = COALESCE(excluded.monthly_income, monthly_income),
			savings_goal   = COALESCE(excluded.savings_goal, savings_goal),
			risk_tolerance = COALESCE(excluded.risk_tolerance, risk_tolerance)`,
		userID, nullable(income), nullable(goal), riskVal,
	)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(r rowScanner) (model.Transaction, error) {
	var tx model.Transaction
	var desc sql.NullString
	var ts string
	var flag int

	err := r.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Category, &tx.PaymentMethod,
		&desc, &ts, &flag, &tx.AnomalyScore)
	if err != nil {
		return tx, err
	}

	if desc.Valid {
		tx.Description = desc.String
	}
	tx.IsAnomaly = flag != 0
	tx.Timestamp, _ = time.Parse(time.RFC3339, ts)
	return tx, nil
}
