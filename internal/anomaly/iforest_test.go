package anomaly

import (
	"math"
	"testing"
)

func TestForestScoresDeterministic(t *testing.T) {
	x := [][]float64{
		{1, 2}, {1.1, 2.1}, {0.9, 1.9}, {1.2, 2.2}, {1.05, 2.0},
		{0.95, 2.05}, {1.15, 1.95}, {1.0, 2.1}, {9, 9}, {1.02, 2.02},
	}

	a := FitForest(x, 100, 42).Scores(x)
	b := FitForest(x, 100, 42).Scores(x)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("score[%d] differs across identically seeded fits: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestForestScoresInUnitRange(t *testing.T) {
	x := [][]float64{
		{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {100},
	}
	scores := FitForest(x, 100, 42).Scores(x)
	for i, s := range scores {
		if s <= 0 || s > 1 {
			t.Fatalf("score[%d] = %v, want in (0, 1]", i, s)
		}
	}
}

func TestForestIsolatesOutlier(t *testing.T) {
	// Tight cluster plus one far point: the far point must score highest.
	x := [][]float64{
		{10}, {10.5}, {9.5}, {10.2}, {9.8}, {10.1}, {9.9}, {10.3}, {9.7}, {10.4},
		{1000},
	}
	scores := FitForest(x, 100, 42).Scores(x)

	outlier := scores[len(scores)-1]
	for i := 0; i < len(scores)-1; i++ {
		if scores[i] >= outlier {
			t.Fatalf("cluster score[%d] = %v >= outlier score %v", i, scores[i], outlier)
		}
	}
}

func TestForestUniformBatch(t *testing.T) {
	// Identical rows cannot be split; every score collapses to 2^-1.
	x := make([][]float64, 12)
	for i := range x {
		x[i] = []float64{5, 5}
	}
	scores := FitForest(x, 100, 42).Scores(x)
	for i, s := range scores {
		if math.Abs(s-0.5) > 1e-12 {
			t.Fatalf("score[%d] = %v for uniform batch, want 0.5", i, s)
		}
	}
}

func TestForestEmptyInput(t *testing.T) {
	f := FitForest(nil, 100, 42)
	if s := f.Score([]float64{1}); s != 0 {
		t.Fatalf("score on empty forest = %v, want 0", s)
	}
}

func TestAvgPathLength(t *testing.T) {
	if c := avgPathLength(1); c != 0 {
		t.Fatalf("c(1) = %v, want 0", c)
	}
	if c := avgPathLength(2); c != 1 {
		t.Fatalf("c(2) = %v, want 1", c)
	}
	// c(n) grows with n and stays below 2 ln n.
	prev := 0.0
	for n := 3; n < 300; n *= 2 {
		c := avgPathLength(n)
		if c <= prev {
			t.Fatalf("c(%d) = %v not increasing", n, c)
		}
		if c >= 2*math.Log(float64(n)) {
			t.Fatalf("c(%d) = %v, want < 2 ln n", n, c)
		}
		prev = c
	}
}
