// Package budget projects current-month spending against an
// income-derived limit.
package budget

import (
	"fmt"
	"time"

	"spendwell/internal/config"
	"spendwell/internal/model"
	"spendwell/internal/store"
)

// Projector extrapolates month-to-date spend to a month-end total.
// Stateless per call; Now is injectable for tests.
type Projector struct {
	store *store.Store
	cfg   config.BudgetConfig
	Now   func() time.Time
}

// NewProjector builds a projector over the given store and config.
func NewProjector(st *store.Store, cfg config.Config) *Projector {
	return &Projector{store: st, cfg: cfg.Budget, Now: time.Now}
}

// Project returns the month-end projection, or nil when the user has no
// monthly income on file (absence, not an error).
func (p *Projector) Project(userID int64) (*model.BudgetProjection, error) {
	prefs, err := p.store.Preferences(userID)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	if prefs == nil || prefs.MonthlyIncome == nil || *prefs.MonthlyIncome <= 0 {
		return nil, nil
	}

	now := p.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	txs, err := p.store.TransactionsSince(userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("loading month transactions: %w", err)
	}

	var current float64
	for _, tx := range txs {
		current += tx.Amount
	}

	daysPassed := now.Day()
	if daysPassed < 1 {
		daysPassed = 1
	}
	// Day 0 of next month is the last day of this one.
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	remaining := lastDay - now.Day()

	dailyAvg := current / float64(daysPassed)
	projected := current + dailyAvg*float64(remaining)

	limit := *prefs.MonthlyIncome * p.cfg.IncomeFraction
	if p.cfg.MonthlyLimit != nil && *p.cfg.MonthlyLimit > 0 {
		limit = *p.cfg.MonthlyLimit
	}

	excess := projected - limit
	if excess < 0 {
		excess = 0
	}

	return &model.BudgetProjection{
		CurrentSpending: current,
		ProjectedTotal:  projected,
		BudgetLimit:     limit,
		WillExceed:      projected > limit,
		ExcessAmount:    excess,
		DaysRemaining:   remaining,
	}, nil
}
