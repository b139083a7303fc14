package event

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBaseHook_MatchesAllWhenUnfiltered(t *testing.T) {
	h := &baseHook{name: "all"}
	for _, et := range []EventType{FactStored, ProcedureStored, InteractionStored, ContextGenerated} {
		if !h.Matches(et) {
			t.Errorf("unfiltered hook should match %s", et)
		}
	}
}

func TestLogHook_LogsEventData(t *testing.T) {
	logger := &testLogger{}
	h := NewLogHook("log", nil, logger, "warn")

	if err := h.Handle(NewEvent(StoreSaveFailed, map[string]interface{}{"path": "/tmp/u.json"})); err != nil {
		t.Fatal(err)
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(logger.warnings))
	}
}

func TestLogHook_NeverBlocking(t *testing.T) {
	h := NewLogHook("log", nil, &testLogger{}, "info")
	if h.IsBlocking() {
		t.Error("log hooks must be non-blocking")
	}
}

func TestWebhookHook_PostsEventJSON(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := NewWebhookHook("webhook", srv.URL, []EventType{ContextGenerated}, true)
	if err := h.Handle(NewEvent(ContextGenerated, map[string]interface{}{"query": "napoleon"})); err != nil {
		t.Fatal(err)
	}

	if received.Type != ContextGenerated {
		t.Errorf("expected context.generated, got %s", received.Type)
	}
	if received.Data["query"] != "napoleon" {
		t.Errorf("expected query data, got %v", received.Data)
	}
}

func TestWebhookHook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewWebhookHook("webhook", srv.URL, nil, true)
	if err := h.Handle(NewEvent(FactStored, nil)); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
