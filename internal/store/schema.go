package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL,
    amount           REAL NOT NULL,
    category         TEXT NOT NULL,
    payment_method   TEXT NOT NULL,
    description      TEXT,
    timestamp        TEXT NOT NULL,
    is_anomaly       INTEGER NOT NULL DEFAULT 0,
    anomaly_score    REAL NOT NULL DEFAULT 0.0
);

CREATE TABLE IF NOT EXISTS preferences (
    user_id          INTEGER PRIMARY KEY,
    monthly_income   REAL,
    savings_goal     REAL,
    risk_tolerance   TEXT,
    notifications    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS forecasts (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id           TEXT NOT NULL,
    user_id          INTEGER NOT NULL,
    forecast_date    TEXT NOT NULL,
    predicted_amount REAL NOT NULL,
    lower_bound      REAL NOT NULL DEFAULT 0.0,
    upper_bound      REAL NOT NULL DEFAULT 0.0,
    category         TEXT NOT NULL DEFAULT 'total',
    created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_forecasts_user ON forecasts(user_id);
`
