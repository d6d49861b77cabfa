// Package daemon provides the long-running spend watcher service.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"spendwell/internal/anomaly"
	"spendwell/internal/config"
	"spendwell/internal/store"
)

// Config controls the watcher runtime behavior.
type Config struct {
	Store        *store.Store
	AppConfig    config.Config
	UserID       int64
	Interval     time.Duration
	EventsBuffer int
	Logger       *slog.Logger
}

// Snapshot is a compact spending state taken at each poll.
type Snapshot struct {
	At           time.Time `json:"at"`
	Transactions int       `json:"transactions"`
	TotalSpend   float64   `json:"total_spend"`
	Anomalies    int       `json:"anomalies"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Transactions int     `json:"transactions"`
	TotalSpend   float64 `json:"total_spend"`
	Anomalies    int     `json:"anomalies"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 && d.TotalSpend == 0 && d.Anomalies == 0
}

// Event is emitted whenever the spending snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Service polls the store, runs batch detection, and keeps a bounded ring
// of change events. The analytical core stays request/response; this is an
// application-layer convenience around it.
type Service struct {
	cfg      Config
	detector *anomaly.Detector

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event
}

// New returns a new watcher service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		startedAt: time.Now(),
	}
	if cfg.Store != nil {
		s.detector = anomaly.NewDetector(cfg.Store, cfg.AppConfig)
	}
	return s
}

// Run polls until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	// Seed an initial snapshot so the first delta is meaningful.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// Events returns a copy of the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Service) pollOnce() {
	flagged, err := s.detector.Detect(s.cfg.UserID)
	if err != nil {
		s.recordError(err)
		return
	}

	lookback := s.cfg.AppConfig.Analysis.LookbackDays
	txs, err := s.cfg.Store.UserTransactions(s.cfg.UserID, lookback)
	if err != nil {
		s.recordError(err)
		return
	}

	now := time.Now()
	snap := Snapshot{At: now, Transactions: len(txs)}
	for _, tx := range txs {
		snap.TotalSpend += tx.Amount
		if tx.IsAnomaly {
			snap.Anomalies++
		}
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: "spend_delta", Timestamp: now, Snapshot: snap, Delta: delta}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		if ev.Delta.Anomalies > 0 {
			s.cfg.Logger.Warn("new anomalous spending flagged",
				"user", s.cfg.UserID, "new_anomalies", ev.Delta.Anomalies)
			for _, tx := range flagged {
				s.cfg.Logger.Warn("flagged transaction",
					"id", tx.ID, "amount", tx.Amount, "category", tx.Category, "score", tx.AnomalyScore)
			}
		} else if !ev.Delta.isZero() {
			s.cfg.Logger.Info("spending changed",
				"user", s.cfg.UserID,
				"new_transactions", ev.Delta.Transactions,
				"spend_delta", ev.Delta.TotalSpend)
		}
	}
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.mu.Unlock()
	s.cfg.Logger.Error("watch poll failed", "err", err)
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions: curr.Transactions - prev.Transactions,
		TotalSpend:   curr.TotalSpend - prev.TotalSpend,
		Anomalies:    curr.Anomalies - prev.Anomalies,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	s.mu.Unlock()
}
