// Package model defines domain types for spendwell transactions and analytics.
package model

import "time"

// Transaction represents one recorded expense for a user.
type Transaction struct {
	ID            int64
	UserID        int64
	Amount        float64
	Category      string
	PaymentMethod string
	Description   string
	Timestamp     time.Time
	IsAnomaly     bool
	AnomalyScore  float64
}

// Preferences holds per-user settings read by the analytics engines.
// Pointer fields are absent when the user never set them.
type Preferences struct {
	UserID        int64
	MonthlyIncome *float64
	SavingsGoal   *float64
	RiskTolerance string
	Notifications bool
}

// RiskTolerance values accepted in preferences.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)
