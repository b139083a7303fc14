package memory

import (
	"strings"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/engram-oss/engram/internal/store"
)

// Semantic stores facts keyed by concept. It owns no data, only the
// "semantic" namespace convention over the shared store.
type Semantic struct {
	store store.Store
}

// NewSemantic creates a semantic memory over the given store.
func NewSemantic(s store.Store) *Semantic {
	return &Semantic{store: s}
}

// AddFact stores attributes for a concept. A repeated concept overwrites the
// prior fact (last write wins, no merge).
func (m *Semantic) AddFact(concept string, details map[string]any) error {
	if strings.TrimSpace(concept) == "" {
		return errors.New(errors.CodeValidation, "concept must not be empty")
	}
	if details == nil {
		details = map[string]any{}
	}
	return m.store.Put(NamespaceSemantic, concept, details)
}

// Fact returns the attributes stored for a concept, or ok=false when the
// concept is unknown.
func (m *Semantic) Fact(concept string) (map[string]any, bool, error) {
	value, ok, err := m.store.Get(NamespaceSemantic, concept)
	if err != nil || !ok {
		return nil, false, err
	}
	var details map[string]any
	if err := decode(value, &details); err != nil {
		return nil, false, errors.Wrap(errors.CodeSerialization, "corrupt fact document", err)
	}
	return details, true, nil
}

// SearchFacts returns facts whose concept or serialized attributes contain
// the query, ordered by concept.
func (m *Semantic) SearchFacts(query string) ([]Fact, error) {
	entries, err := m.store.Search(NamespaceSemantic, query)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(entries))
	for _, e := range entries {
		var details map[string]any
		if err := decode(e.Value, &details); err != nil {
			continue
		}
		facts = append(facts, Fact{Concept: e.Key, Details: details})
	}
	return facts, nil
}

// Count returns the number of stored facts.
func (m *Semantic) Count() (int, error) {
	entries, err := m.store.List(NamespaceSemantic)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
