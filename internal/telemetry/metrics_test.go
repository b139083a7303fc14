package telemetry

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncFactsStored()
	m.IncFactsStored()
	m.IncProceduresStored()
	m.IncInteractionsStored()
	m.IncSearches()
	m.IncSaves()
	m.IncSaveFailures()

	snap := m.Snapshot()
	if snap["facts_stored"].(int64) != 2 {
		t.Errorf("facts_stored = %v, want 2", snap["facts_stored"])
	}
	if snap["procedures_stored"].(int64) != 1 {
		t.Errorf("procedures_stored = %v, want 1", snap["procedures_stored"])
	}
	if snap["save_failures"].(int64) != 1 {
		t.Errorf("save_failures = %v, want 1", snap["save_failures"])
	}
}

func TestMetrics_ContextDurations(t *testing.T) {
	m := NewMetrics()

	m.RecordContextBuild(10 * time.Millisecond)
	m.RecordContextBuild(30 * time.Millisecond)

	snap := m.Snapshot()
	if snap["context_builds"].(int64) != 2 {
		t.Errorf("context_builds = %v, want 2", snap["context_builds"])
	}
	if snap["context_build_min_ms"].(float64) != 10 {
		t.Errorf("min = %v, want 10", snap["context_build_min_ms"])
	}
	if snap["context_build_max_ms"].(float64) != 30 {
		t.Errorf("max = %v, want 30", snap["context_build_max_ms"])
	}
	if snap["context_build_avg_ms"].(float64) != 20 {
		t.Errorf("avg = %v, want 20", snap["context_build_avg_ms"])
	}
}

func TestMetrics_ConcurrentIncrements(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncFactsStored()
			m.RecordContextBuild(time.Millisecond)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap["facts_stored"].(int64) != 50 {
		t.Errorf("facts_stored = %v, want 50", snap["facts_stored"])
	}
	if snap["context_builds"].(int64) != 50 {
		t.Errorf("context_builds = %v, want 50", snap["context_builds"])
	}
}
