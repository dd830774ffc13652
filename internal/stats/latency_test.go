package stats

import (
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	l := NewLatency(time.Hour)
	for _, ms := range []int{300, 100, 500, 200, 400} {
		l.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := l.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatency(time.Minute)
	l.now = func() time.Time { return clock }

	l.Record(100 * time.Millisecond)
	clock = clock.Add(2 * time.Minute)

	if snap := l.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	l.Record(200 * time.Millisecond)
	snap := l.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected single 200ms sample, got %+v", snap)
	}
}

func TestLatencyClampsNegativeDuration(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record(-10 * time.Millisecond)
	snap := l.Snapshot()
	if snap.Count != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

func TestLatencyNilIsNoop(t *testing.T) {
	var l *Latency
	l.Record(time.Second)
	l.Since(time.Now())
	if snap := l.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected empty snapshot from nil, got %+v", snap)
	}
}
