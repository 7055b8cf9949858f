package observe

import (
	"testing"
	"time"
)

func TestScanStats_EmptySnapshot(t *testing.T) {
	s := NewScanStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestScanStats_RecordAndAggregate(t *testing.T) {
	s := NewScanStats(time.Hour)
	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		s.Record(d)
	}

	snap := s.Snapshot()
	if snap.Count != 3 {
		t.Fatalf("expected 3 samples, got %d", snap.Count)
	}
	if snap.MinMs != 10 || snap.MaxMs != 30 {
		t.Errorf("expected min/max 10/30, got %v/%v", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 20 {
		t.Errorf("expected avg 20, got %v", snap.AvgMs)
	}
	if snap.P50Ms != 20 {
		t.Errorf("expected p50 20, got %v", snap.P50Ms)
	}
}

func TestScanStats_NegativeClampedToZero(t *testing.T) {
	s := NewScanStats(time.Hour)
	s.Record(-5 * time.Millisecond)
	if snap := s.Snapshot(); snap.MaxMs != 0 {
		t.Errorf("expected clamped sample, got %v", snap.MaxMs)
	}
}

func TestScanStats_WindowPruning(t *testing.T) {
	s := NewScanStats(20 * time.Millisecond)
	s.Record(5 * time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	s.Record(7 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected old sample to be pruned, got count %d", snap.Count)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		pct  float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
		{25, 2},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.pct); got != tt.want {
			t.Errorf("percentile(%v): expected %v, got %v", tt.pct, tt.want, got)
		}
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}
