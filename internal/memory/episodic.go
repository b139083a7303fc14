package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/engram-oss/engram/internal/store"
	"github.com/google/uuid"
)

// Episodic is an append-only log of timestamped interactions over the
// "episodic" namespace. Records get a fresh uuid key on every add and are
// never overwritten; insertion order is carried by an explicit sequence
// number so it survives a persistence round-trip.
type Episodic struct {
	store store.Store

	mu  sync.Mutex
	seq int64
}

// NewEpisodic creates an episodic memory over the given store, restoring the
// sequence counter from any persisted records.
func NewEpisodic(s store.Store) (*Episodic, error) {
	m := &Episodic{store: s}

	records, err := m.all()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Seq > m.seq {
			m.seq = r.Seq
		}
	}
	return m, nil
}

// AddInteraction appends a new interaction, timestamped at call time.
func (m *Episodic) AddInteraction(query, response string, metadata map[string]any) (Interaction, error) {
	m.mu.Lock()
	m.seq++
	rec := Interaction{
		ID:        uuid.New().String(),
		Seq:       m.seq,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Query:     query,
		Response:  response,
		Metadata:  metadata,
	}
	m.mu.Unlock()

	if err := m.store.Put(NamespaceEpisodic, rec.ID, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Interaction returns a single record by ID, or ok=false when unknown.
func (m *Episodic) Interaction(id string) (Interaction, bool, error) {
	value, ok, err := m.store.Get(NamespaceEpisodic, id)
	if err != nil || !ok {
		return Interaction{}, false, err
	}
	var rec Interaction
	if err := decode(value, &rec); err != nil {
		return Interaction{}, false, err
	}
	return rec, true, nil
}

// Recent returns the last n interactions, oldest first. Fewer than n stored
// records returns all of them; n <= 0 returns none.
func (m *Episodic) Recent(n int) ([]Interaction, error) {
	if n <= 0 {
		return nil, nil
	}
	records, err := m.all()
	if err != nil {
		return nil, err
	}
	if n < len(records) {
		records = records[len(records)-n:]
	}
	return records, nil
}

// SearchInteractions returns records whose query, response, or metadata text
// contains the query string, in insertion order.
func (m *Episodic) SearchInteractions(query string) ([]Interaction, error) {
	entries, err := m.store.Search(NamespaceEpisodic, query)
	if err != nil {
		return nil, err
	}
	return decodeOrdered(entries), nil
}

// Count returns the number of stored interactions.
func (m *Episodic) Count() (int, error) {
	entries, err := m.store.List(NamespaceEpisodic)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// all returns every record in insertion order.
func (m *Episodic) all() ([]Interaction, error) {
	entries, err := m.store.List(NamespaceEpisodic)
	if err != nil {
		return nil, err
	}
	return decodeOrdered(entries), nil
}

// decodeOrdered converts store entries into records sorted by sequence.
func decodeOrdered(entries []store.Entry) []Interaction {
	records := make([]Interaction, 0, len(entries))
	for _, e := range entries {
		var rec Interaction
		if err := decode(e.Value, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
	return records
}
