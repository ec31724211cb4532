// Package telemetry aggregates lookup telemetry for tuning completion.
// All data stays in memory and in process - no external reporting.
package telemetry

import (
	"sync"
	"time"
)

// MatchMode is the lookup mode a query used.
type MatchMode string

const (
	MatchPrefix MatchMode = "prefix"
	MatchExact  MatchMode = "exact"
)

// LatencyBucket is a latency histogram bucket.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// LookupEvent is a single lookup for telemetry recording.
type LookupEvent struct {
	Query       string
	Mode        MatchMode
	ResultCount int
	Latency     time.Duration
}

// LookupMetrics aggregates lookup counts, a latency histogram, and the
// most recent zero-result queries. Safe for concurrent use.
type LookupMetrics struct {
	mu sync.RWMutex

	byMode      map[MatchMode]int64
	latency     map[LatencyBucket]int64
	zeroResults int64

	// Ring of recent zero-result queries, newest last.
	misses    []string
	missHead  int
	missCount int
}

// missCapacity bounds the zero-result query ring.
const missCapacity = 50

// NewLookupMetrics creates an empty metrics aggregator.
func NewLookupMetrics() *LookupMetrics {
	return &LookupMetrics{
		byMode:  make(map[MatchMode]int64),
		latency: make(map[LatencyBucket]int64),
		misses:  make([]string, missCapacity),
	}
}

// Record adds one lookup to the aggregates.
func (m *LookupMetrics) Record(ev LookupEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byMode[ev.Mode]++
	m.latency[LatencyToBucket(ev.Latency)]++

	if ev.ResultCount == 0 {
		m.zeroResults++
		m.misses[m.missHead] = ev.Query
		m.missHead = (m.missHead + 1) % missCapacity
		if m.missCount < missCapacity {
			m.missCount++
		}
	}
}

// Summary is a point-in-time view of the aggregates.
type Summary struct {
	TotalLookups  int64            `json:"total_lookups"`
	PrefixLookups int64            `json:"prefix_lookups"`
	ExactLookups  int64            `json:"exact_lookups"`
	ZeroResults   int64            `json:"zero_results"`
	Latency       map[string]int64 `json:"latency"`
	RecentMisses  []string         `json:"recent_misses,omitempty"`
}

// Snapshot returns the current aggregates.
func (m *LookupMetrics) Snapshot() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{
		PrefixLookups: m.byMode[MatchPrefix],
		ExactLookups:  m.byMode[MatchExact],
		ZeroResults:   m.zeroResults,
		Latency:       make(map[string]int64, len(m.latency)),
	}
	s.TotalLookups = s.PrefixLookups + s.ExactLookups
	for bucket, n := range m.latency {
		s.Latency[string(bucket)] = n
	}

	// Oldest first.
	for i := 0; i < m.missCount; i++ {
		idx := (m.missHead - m.missCount + i + missCapacity) % missCapacity
		s.RecentMisses = append(s.RecentMisses, m.misses[idx])
	}
	return s
}
