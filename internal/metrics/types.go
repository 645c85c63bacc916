package metrics

import (
	"sort"
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType string

const (
	TypeTiming  MetricType = "timing"
	TypeHitMiss MetricType = "hit_miss"
	TypeCounter MetricType = "counter"
)

// TimingMetric tracks timing statistics
type TimingMetric struct {
	mu        sync.RWMutex
	Count     int64
	Total     time.Duration
	Min       time.Duration
	Max       time.Duration
	Last      time.Duration
	samples   []time.Duration // ring buffer for percentiles, not persisted
	sampleIdx int
}

func (t *TimingMetric) record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Count == 0 || d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
	t.Count++
	t.Total += d
	t.Last = d

	if len(t.samples) < maxSamples {
		t.samples = append(t.samples, d)
	} else {
		t.samples[t.sampleIdx] = d
		t.sampleIdx = (t.sampleIdx + 1) % maxSamples
	}
}

// percentile returns the p-th percentile (0-100) of the retained samples.
func (t *TimingMetric) percentile(p float64) time.Duration {
	if len(t.samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(t.samples))
	copy(sorted, t.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

// HitMissMetric tracks cache hit/miss statistics
type HitMissMetric struct {
	mu      sync.RWMutex
	Hits    int64
	Misses  int64
	LastHit time.Time
}

// CounterMetric tracks incrementing values
type CounterMetric struct {
	mu    sync.RWMutex
	Value int64
	Last  time.Time
}

// MetricSnapshot represents a point-in-time view of a metric
type MetricSnapshot struct {
	Path string     `json:"path"`
	Type MetricType `json:"type"`

	// counter
	Value int64 `json:"value,omitempty"`

	// timing
	Count  int64   `json:"count,omitempty"`
	AvgMs  float64 `json:"avgMs,omitempty"`
	MinMs  float64 `json:"minMs,omitempty"`
	MaxMs  float64 `json:"maxMs,omitempty"`
	P95Ms  float64 `json:"p95Ms,omitempty"`
	LastMs float64 `json:"lastMs,omitempty"`

	// hit/miss
	Hits    int64   `json:"hits,omitempty"`
	Misses  int64   `json:"misses,omitempty"`
	HitRate float64 `json:"hitRate,omitempty"`
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
