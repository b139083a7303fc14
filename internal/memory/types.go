package memory

import "encoding/json"

// Namespace names, one per memory kind. These are the top-level keys of the
// persisted document.
const (
	NamespaceSemantic   = "semantic"
	NamespaceEpisodic   = "episodic"
	NamespaceProcedural = "procedural"
)

// Fact is a semantic-memory entry: a concept with arbitrary attributes.
type Fact struct {
	Concept string         `json:"concept"`
	Details map[string]any `json:"details"`
}

// Interaction is an episodic-memory record. Records are append-only and never
// mutated after creation. Seq orders records by insertion and survives a
// persistence round-trip.
type Interaction struct {
	ID        string         `json:"id"`
	Seq       int64          `json:"seq"`
	Timestamp string         `json:"timestamp"` // RFC 3339, UTC
	Query     string         `json:"query"`
	Response  string         `json:"response"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Procedure is a procedural-memory entry: an ordered step sequence with an
// optional applicability context. Step numbering is the caller's convention;
// only order is preserved.
type Procedure struct {
	Steps   []string `json:"steps"`
	Context string   `json:"context,omitempty"`
}

// NamedProcedure pairs a procedure with its lookup name for search results.
type NamedProcedure struct {
	Name string `json:"name"`
	Procedure
}

// decode converts a stored value (a struct before persistence, a generic
// document after a JSON round-trip) into a typed record.
func decode(value any, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
