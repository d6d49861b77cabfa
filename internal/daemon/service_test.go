package daemon

import (
	"math"
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Transactions: 40,
		TotalSpend:   12500.0,
		Anomalies:    2,
	}
	curr := Snapshot{
		Transactions: 44,
		TotalSpend:   15750.5,
		Anomalies:    3,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Transactions != 4 {
		t.Fatalf("Transactions delta = %d, want 4", delta.Transactions)
	}
	if math.Abs(delta.TotalSpend-3250.5) > 1e-9 {
		t.Fatalf("TotalSpend delta = %.2f, want 3250.50", delta.TotalSpend)
	}
	if delta.Anomalies != 1 {
		t.Fatalf("Anomalies delta = %d, want 1", delta.Anomalies)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should diff to zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	events := s.Events()
	if len(events) != 2 {
		t.Fatalf("events len = %d, want 2", len(events))
	}
	if events[0].ID != 2 || events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", events[0].ID, events[1].ID)
	}
}
