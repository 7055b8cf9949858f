package observe

import (
	"sort"
	"sync"
	"time"
)

type scanSample struct {
	at  time.Time
	dur time.Duration
}

// ScanSnapshot is a point-in-time aggregate of recent scan durations.
type ScanSnapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// ScanStats tracks extraction-run durations within a rolling window.
type ScanStats struct {
	mu      sync.Mutex
	samples []scanSample
	maxAge  time.Duration
}

func NewScanStats(maxAge time.Duration) *ScanStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ScanStats{
		samples: make([]scanSample, 0, 64),
		maxAge:  maxAge,
	}
}

// Record adds one scan duration sample.
func (s *ScanStats) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.samples = append(s.samples, scanSample{at: now, dur: d})
}

// Snapshot aggregates the samples still inside the window.
func (s *ScanStats) Snapshot() ScanSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return ScanSnapshot{}
	}

	ms := make([]float64, 0, len(s.samples))
	var sum float64
	for _, sm := range s.samples {
		v := float64(sm.dur) / float64(time.Millisecond)
		ms = append(ms, v)
		sum += v
	}
	sort.Float64s(ms)

	return ScanSnapshot{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: sum / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
}

func (s *ScanStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := 0
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			s.samples[keep] = sm
			keep++
		}
	}
	s.samples = s.samples[:keep]
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := (float64(len(sorted)-1) * pct) / 100.0
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}
