// Package stats keeps rolling latency percentiles for outbound API calls and
// inbound requests.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
}

// Snapshot is a point-in-time aggregate of latency samples.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks recent durations within a rolling window. A nil *Latency
// ignores Record calls, so callers can leave it unset.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one duration. Negative durations count as zero.
func (l *Latency) Record(d time.Duration) {
	if l == nil {
		return
	}
	if d < 0 {
		d = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{timestamp: now, duration: d})
}

// Since records the time elapsed since start.
func (l *Latency) Since(start time.Time) {
	l.Record(time.Since(start))
}

func (l *Latency) Snapshot() Snapshot {
	if l == nil {
		return Snapshot{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	if len(l.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(l.samples))
	var sum int64
	for _, s := range l.samples {
		ms := s.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.maxAge)
	l.samples = slices.DeleteFunc(l.samples, func(s sample) bool {
		return s.timestamp.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
