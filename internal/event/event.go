package event

import "time"

// EventType identifies the kind of lifecycle event.
type EventType string

const (
	// Memory mutations
	FactStored        EventType = "fact.stored"
	ProcedureStored   EventType = "procedure.stored"
	InteractionStored EventType = "interaction.stored"

	// Retrieval
	ContextGenerated EventType = "context.generated"

	// Persistence
	StoreSaved      EventType = "store.saved"
	StoreSaveFailed EventType = "store.save_failed"
)

// Event carries data about a lifecycle occurrence.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]interface{}) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		Data:      data,
	}
}
