// Package metrics records tool usage: call counters, timings and cache hit rates.
package metrics

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	maxSamples = 1000 // Keep last 1000 samples for percentile calculations
)

// MetricsManager holds all metrics keyed by slash-separated path,
// e.g. "tools/base64/calls" or "rates/cache".
type MetricsManager struct {
	mu       sync.RWMutex
	timings  map[string]*TimingMetric
	hitMiss  map[string]*HitMissMetric
	counters map[string]*CounterMetric

	db *sql.DB // nil when persistence is disabled
}

var (
	instance *MetricsManager
	once     sync.Once
)

// NewManager creates an empty, memory-only manager.
func NewManager() *MetricsManager {
	return &MetricsManager{
		timings:  make(map[string]*TimingMetric),
		hitMiss:  make(map[string]*HitMissMetric),
		counters: make(map[string]*CounterMetric),
	}
}

// GetInstance returns the process-wide metrics manager
func GetInstance() *MetricsManager {
	once.Do(func() {
		instance = NewManager()
	})
	return instance
}

// buildPath creates a normalized path from topic and function
func buildPath(topic, function string) string {
	if function == "" {
		return topic
	}
	return fmt.Sprintf("%s/%s", topic, function)
}

// RecordDuration records a duration
func (m *MetricsManager) RecordDuration(topic, function string, duration time.Duration) {
	path := buildPath(topic, function)

	m.mu.Lock()
	metric, exists := m.timings[path]
	if !exists {
		metric = &TimingMetric{samples: make([]time.Duration, 0, 16)}
		m.timings[path] = metric
	}
	m.mu.Unlock()

	metric.record(duration)
}

// RecordHit records a cache hit
func (m *MetricsManager) RecordHit(topic, function string) {
	metric := m.hitMissMetric(buildPath(topic, function))
	metric.mu.Lock()
	defer metric.mu.Unlock()
	metric.Hits++
	metric.LastHit = time.Now()
}

// RecordMiss records a cache miss
func (m *MetricsManager) RecordMiss(topic, function string) {
	metric := m.hitMissMetric(buildPath(topic, function))
	metric.mu.Lock()
	defer metric.mu.Unlock()
	metric.Misses++
}

func (m *MetricsManager) hitMissMetric(path string) *HitMissMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	metric, exists := m.hitMiss[path]
	if !exists {
		metric = &HitMissMetric{}
		m.hitMiss[path] = metric
	}
	return metric
}

// AddCounter adds to a counter
func (m *MetricsManager) AddCounter(topic, function string, delta int64) {
	path := buildPath(topic, function)

	m.mu.Lock()
	metric, exists := m.counters[path]
	if !exists {
		metric = &CounterMetric{}
		m.counters[path] = metric
	}
	m.mu.Unlock()

	metric.mu.Lock()
	defer metric.mu.Unlock()
	metric.Value += delta
	metric.Last = time.Now()
}

// IncrementCounter increments a counter
func (m *MetricsManager) IncrementCounter(topic, function string) {
	m.AddCounter(topic, function, 1)
}

// Counter returns the current value of a counter, 0 if it does not exist.
func (m *MetricsManager) Counter(path string) int64 {
	m.mu.RLock()
	metric, ok := m.counters[path]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	metric.mu.RLock()
	defer metric.mu.RUnlock()
	return metric.Value
}

// Snapshot returns every metric whose path starts with prefix, sorted by path.
func (m *MetricsManager) Snapshot(prefix string) []MetricSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []MetricSnapshot
	for path, t := range m.timings {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		t.mu.RLock()
		snap := MetricSnapshot{
			Path:   path,
			Type:   TypeTiming,
			Count:  t.Count,
			MinMs:  ms(t.Min),
			MaxMs:  ms(t.Max),
			LastMs: ms(t.Last),
			P95Ms:  ms(t.percentile(95)),
		}
		if t.Count > 0 {
			snap.AvgMs = ms(t.Total / time.Duration(t.Count))
		}
		t.mu.RUnlock()
		out = append(out, snap)
	}
	for path, h := range m.hitMiss {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		h.mu.RLock()
		snap := MetricSnapshot{Path: path, Type: TypeHitMiss, Hits: h.Hits, Misses: h.Misses}
		if total := h.Hits + h.Misses; total > 0 {
			snap.HitRate = float64(h.Hits) / float64(total)
		}
		h.mu.RUnlock()
		out = append(out, snap)
	}
	for path, c := range m.counters {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		c.mu.RLock()
		out = append(out, MetricSnapshot{Path: path, Type: TypeCounter, Value: c.Value})
		c.mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Reset clears all in-memory metrics.
func (m *MetricsManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = make(map[string]*TimingMetric)
	m.hitMiss = make(map[string]*HitMissMetric)
	m.counters = make(map[string]*CounterMetric)
}
