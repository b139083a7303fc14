package testutil

import (
	"testing"

	"github.com/engram-oss/engram/internal/event"
	"github.com/engram-oss/engram/internal/memory"
	"github.com/engram-oss/engram/internal/telemetry"
)

// TestHarness provides everything needed for integration tests:
// an in-process memory instance, event capture, logger, and metrics.
type TestHarness struct {
	T       *testing.T
	Memory  *memory.Memory
	Bus     *event.Bus
	Logger  *telemetry.Logger
	Metrics *telemetry.Metrics
	Events  []event.Event // captured events
}

// NewTestHarness creates a harness backed by the in-process store.
func NewTestHarness(t *testing.T) *TestHarness {
	return NewTestHarnessWithOptions(t, memory.Options{User: "test-user"})
}

// NewTestHarnessWithOptions creates a harness with custom memory options.
// Logger, metrics, and bus are always replaced with the harness's own.
func NewTestHarnessWithOptions(t *testing.T, opts memory.Options) *TestHarness {
	t.Helper()

	logger := TestLogger()
	bus := event.NewBus(logger)
	metrics := telemetry.NewMetrics()

	h := &TestHarness{
		T:       t,
		Bus:     bus,
		Logger:  logger,
		Metrics: metrics,
		Events:  make([]event.Event, 0),
	}
	bus.Register(&eventCapture{harness: h})

	opts.Logger = logger
	opts.Metrics = metrics
	opts.Bus = bus
	mem, err := memory.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { mem.Close() })

	h.Memory = mem
	return h
}

// AssertEventEmitted checks that an event with the given type was emitted.
func (h *TestHarness) AssertEventEmitted(eventType event.EventType) {
	h.T.Helper()
	for _, e := range h.Events {
		if e.Type == eventType {
			return
		}
	}
	h.T.Errorf("expected event %q to be emitted", eventType)
}

// AssertNoEvent checks that an event type was NOT emitted.
func (h *TestHarness) AssertNoEvent(eventType event.EventType) {
	h.T.Helper()
	for _, e := range h.Events {
		if e.Type == eventType {
			h.T.Errorf("expected event %q NOT to be emitted, but it was", eventType)
			return
		}
	}
}

// EventCount returns the number of events with the given type.
func (h *TestHarness) EventCount(eventType event.EventType) int {
	count := 0
	for _, e := range h.Events {
		if e.Type == eventType {
			count++
		}
	}
	return count
}

// eventCapture is a hook that records events.
type eventCapture struct {
	harness *TestHarness
}

func (c *eventCapture) Name() string                 { return "test-capture" }
func (c *eventCapture) Matches(event.EventType) bool { return true } // match all
func (c *eventCapture) IsBlocking() bool             { return true } // sync for tests

func (c *eventCapture) Handle(ev event.Event) error {
	c.harness.Events = append(c.harness.Events, ev)
	return nil
}
