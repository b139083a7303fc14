package event

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// testLogger records warn messages.
type testLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *testLogger) Warn(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *testLogger) Info(msg string, keyvals ...interface{})  {}
func (l *testLogger) Debug(msg string, keyvals ...interface{}) {}

// collectHook records handled events.
type collectHook struct {
	baseHook
	mu       sync.Mutex
	handled  []Event
	handleFn func(Event) error
}

func newCollectHook(name string, events []EventType, blocking bool) *collectHook {
	return &collectHook{
		baseHook: baseHook{name: name, events: events, blocking: blocking},
	}
}

func (h *collectHook) Handle(ev Event) error {
	if h.handleFn != nil {
		return h.handleFn(ev)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, ev)
	return nil
}

func (h *collectHook) events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make([]Event, len(h.handled))
	copy(cp, h.handled)
	return cp
}

func TestBus_Emit_BlockingHook(t *testing.T) {
	bus := NewBus(nil)
	hook := newCollectHook("test", []EventType{FactStored}, true)
	bus.Register(hook)

	if err := bus.Emit(NewEvent(FactStored, map[string]interface{}{"concept": "einstein"})); err != nil {
		t.Fatal(err)
	}

	handled := hook.events()
	if len(handled) != 1 {
		t.Fatalf("expected 1 handled event, got %d", len(handled))
	}
	if handled[0].Data["concept"] != "einstein" {
		t.Errorf("expected concept data, got %v", handled[0].Data)
	}
}

func TestBus_Emit_FilteredOut(t *testing.T) {
	bus := NewBus(nil)
	hook := newCollectHook("test", []EventType{ContextGenerated}, true)
	bus.Register(hook)

	bus.Emit(NewEvent(FactStored, nil))

	if len(hook.events()) != 0 {
		t.Error("expected no handled events for non-matching type")
	}
}

func TestBus_Emit_BlockingHookError(t *testing.T) {
	bus := NewBus(nil)
	hook := newCollectHook("failing", nil, true)
	hook.handleFn = func(Event) error { return fmt.Errorf("boom") }
	bus.Register(hook)

	if err := bus.Emit(NewEvent(StoreSaveFailed, nil)); err == nil {
		t.Fatal("expected blocking hook error to propagate")
	}
}

func TestBus_Emit_NonBlockingHookError(t *testing.T) {
	logger := &testLogger{}
	bus := NewBus(logger)
	hook := newCollectHook("failing", nil, false)
	hook.handleFn = func(Event) error { return fmt.Errorf("boom") }
	bus.Register(hook)

	if err := bus.Emit(NewEvent(InteractionStored, nil)); err != nil {
		t.Fatalf("non-blocking hook error must not propagate, got %v", err)
	}

	// Non-blocking hooks run in goroutines; give the warning time to land.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		logger.mu.Lock()
		n := len(logger.warnings)
		logger.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("expected a warning from the failed non-blocking hook")
}

func TestBus_NilSafe(t *testing.T) {
	var bus *Bus
	bus.Register(newCollectHook("test", nil, true))
	if err := bus.Emit(NewEvent(FactStored, nil)); err != nil {
		t.Fatalf("nil bus must be a no-op, got %v", err)
	}
}
