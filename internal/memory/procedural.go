package memory

import (
	"strings"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/engram-oss/engram/internal/store"
)

// Procedural stores named step sequences over the "procedural" namespace.
type Procedural struct {
	store store.Store
}

// NewProcedural creates a procedural memory over the given store.
func NewProcedural(s store.Store) *Procedural {
	return &Procedural{store: s}
}

// AddProcedure stores a step sequence under a name. A repeated name
// overwrites the prior procedure (last write wins).
func (m *Procedural) AddProcedure(name string, steps []string, context string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.CodeValidation, "procedure name must not be empty")
	}
	if len(steps) == 0 {
		return errors.New(errors.CodeValidation, "procedure must have at least one step")
	}
	return m.store.Put(NamespaceProcedural, name, Procedure{Steps: steps, Context: context})
}

// UpdateProcedure replaces an existing procedure's steps. Unlike
// AddProcedure it refuses to create a new entry: ok=false when the name is
// unknown.
func (m *Procedural) UpdateProcedure(name string, steps []string, context string) (bool, error) {
	_, ok, err := m.store.Get(NamespaceProcedural, name)
	if err != nil || !ok {
		return false, err
	}
	if err := m.AddProcedure(name, steps, context); err != nil {
		return false, err
	}
	return true, nil
}

// Procedure returns the procedure stored under a name, or ok=false when
// unknown.
func (m *Procedural) Procedure(name string) (Procedure, bool, error) {
	value, ok, err := m.store.Get(NamespaceProcedural, name)
	if err != nil || !ok {
		return Procedure{}, false, err
	}
	var p Procedure
	if err := decode(value, &p); err != nil {
		return Procedure{}, false, errors.Wrap(errors.CodeSerialization, "corrupt procedure document", err)
	}
	return p, true, nil
}

// SearchProcedures returns procedures whose name or step text contains the
// query, ordered by name.
func (m *Procedural) SearchProcedures(query string) ([]NamedProcedure, error) {
	entries, err := m.store.Search(NamespaceProcedural, query)
	if err != nil {
		return nil, err
	}

	procs := make([]NamedProcedure, 0, len(entries))
	for _, e := range entries {
		var p Procedure
		if err := decode(e.Value, &p); err != nil {
			continue
		}
		procs = append(procs, NamedProcedure{Name: e.Key, Procedure: p})
	}
	return procs, nil
}

// Count returns the number of stored procedures.
func (m *Procedural) Count() (int, error) {
	entries, err := m.store.List(NamespaceProcedural)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
