package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects runtime counters for memory operations.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FactsStored        int64
	ProceduresStored   int64
	InteractionsStored int64
	Searches           int64
	ContextBuilds      int64
	Saves              int64
	SaveFailures       int64

	// Histogram (simplified)
	contextDurations []time.Duration

	// Exporter (optional)
	exporter MetricsExporter
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		contextDurations: make([]time.Duration, 0, 1000),
	}
}

// SetExporter attaches an exporter that receives snapshots.
func (m *Metrics) SetExporter(e MetricsExporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exporter = e
}

// IncFactsStored increments the facts stored counter.
func (m *Metrics) IncFactsStored() {
	atomic.AddInt64(&m.FactsStored, 1)
}

// IncProceduresStored increments the procedures stored counter.
func (m *Metrics) IncProceduresStored() {
	atomic.AddInt64(&m.ProceduresStored, 1)
}

// IncInteractionsStored increments the interactions stored counter.
func (m *Metrics) IncInteractionsStored() {
	atomic.AddInt64(&m.InteractionsStored, 1)
}

// IncSearches increments the search counter.
func (m *Metrics) IncSearches() {
	atomic.AddInt64(&m.Searches, 1)
}

// IncSaves increments the successful save counter.
func (m *Metrics) IncSaves() {
	atomic.AddInt64(&m.Saves, 1)
}

// IncSaveFailures increments the failed save counter.
func (m *Metrics) IncSaveFailures() {
	atomic.AddInt64(&m.SaveFailures, 1)
}

// RecordContextBuild records one context generation and its duration.
func (m *Metrics) RecordContextBuild(d time.Duration) {
	atomic.AddInt64(&m.ContextBuilds, 1)

	m.mu.Lock()
	m.contextDurations = append(m.contextDurations, d)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := map[string]interface{}{
		"facts_stored":        atomic.LoadInt64(&m.FactsStored),
		"procedures_stored":   atomic.LoadInt64(&m.ProceduresStored),
		"interactions_stored": atomic.LoadInt64(&m.InteractionsStored),
		"searches":            atomic.LoadInt64(&m.Searches),
		"context_builds":      atomic.LoadInt64(&m.ContextBuilds),
		"saves":               atomic.LoadInt64(&m.Saves),
		"save_failures":       atomic.LoadInt64(&m.SaveFailures),
	}

	if len(m.contextDurations) > 0 {
		min, max, total := m.contextDurations[0], m.contextDurations[0], time.Duration(0)
		for _, d := range m.contextDurations {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
			total += d
		}
		snap["context_build_min_ms"] = float64(min.Microseconds()) / 1000
		snap["context_build_max_ms"] = float64(max.Microseconds()) / 1000
		snap["context_build_avg_ms"] = float64(total.Microseconds()) / 1000 / float64(len(m.contextDurations))
	}

	return snap
}

// Export sends a labeled snapshot to the attached exporter, if any.
func (m *Metrics) Export(event string, labels map[string]string) error {
	m.mu.RLock()
	exporter := m.exporter
	m.mu.RUnlock()

	if exporter == nil {
		return nil
	}
	return exporter.Export(MetricsSnapshot{
		Timestamp: time.Now(),
		Event:     event,
		Metrics:   m.Snapshot(),
		Labels:    labels,
	})
}
