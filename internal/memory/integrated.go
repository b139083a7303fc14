package memory

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/engram-oss/engram/internal/event"
	"github.com/engram-oss/engram/internal/store"
	"github.com/engram-oss/engram/internal/telemetry"
)

// Default retrieval and budgeting knobs, overridable via Options.
const (
	DefaultRecentWindow    = 3
	DefaultPerKindLimit    = 5
	DefaultMaxContextChars = 4000
)

// Options configures a Memory instance. User and Dir resolve the persisted
// file location; one store instance owns that file for its lifetime.
type Options struct {
	User   string // user identifier, becomes the file name stem
	Dir    string // storage directory
	Driver string // json or sqlite; ignored when persistence is disabled
	// Persist enables disk backing. When false all state is
	// process-lifetime only and the driver is ignored.
	Persist bool

	RecentWindow    int // recent interactions always included in context
	PerKindLimit    int // cap on matched items per memory kind
	MaxContextChars int // upper bound on the rendered context length

	Logger  *telemetry.Logger
	Metrics *telemetry.Metrics
	Bus     *event.Bus

	// Store overrides the driver-selected store when non-nil. The caller
	// keeps ownership semantics: Close still closes it.
	Store store.Store
}

// Memory composes the three memory kinds over one shared store and is the
// single entry point for cross-kind search and context generation.
type Memory struct {
	user       string
	store      store.Store
	semantic   *Semantic
	episodic   *Episodic
	procedural *Procedural

	recentWindow    int
	perKindLimit    int
	maxContextChars int

	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	bus     *event.Bus
}

// New opens the per-user store and wires the three memory kinds over it.
func New(opts Options) (*Memory, error) {
	if strings.TrimSpace(opts.User) == "" {
		return nil, errors.New(errors.CodeValidation, "user identifier must not be empty")
	}

	s := opts.Store
	if s == nil {
		driver := store.DriverMemory
		path := ""
		if opts.Persist {
			driver = opts.Driver
			if driver == "" {
				driver = store.DriverJSON
			}
			ext := ".json"
			if driver == store.DriverSQLite {
				ext = ".db"
			}
			path = filepath.Join(opts.Dir, opts.User+ext)
		}

		var err error
		s, err = store.Open(driver, path)
		if err != nil {
			return nil, err
		}
	}

	episodic, err := NewEpisodic(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewLogger("info")
	}

	m := &Memory{
		user:            opts.User,
		store:           s,
		semantic:        NewSemantic(s),
		episodic:        episodic,
		procedural:      NewProcedural(s),
		recentWindow:    opts.RecentWindow,
		perKindLimit:    opts.PerKindLimit,
		maxContextChars: opts.MaxContextChars,
		logger:          logger,
		metrics:         opts.Metrics,
		bus:             opts.Bus,
	}
	if m.recentWindow <= 0 {
		m.recentWindow = DefaultRecentWindow
	}
	if m.perKindLimit <= 0 {
		m.perKindLimit = DefaultPerKindLimit
	}
	if m.maxContextChars <= 0 {
		m.maxContextChars = DefaultMaxContextChars
	}
	return m, nil
}

// User returns the owning user identifier.
func (m *Memory) User() string {
	return m.user
}

// StorePath returns the persisted file path, or "" without persistence.
func (m *Memory) StorePath() string {
	if js, ok := m.store.(*store.JSONStore); ok {
		return js.Path()
	}
	return ""
}

// Store returns the underlying store.
func (m *Memory) Store() store.Store {
	return m.store
}

// AddFact stores a semantic fact. On a persistence failure the in-memory
// mutation stands; the error is returned as a best-effort durability warning.
func (m *Memory) AddFact(concept string, details map[string]any) error {
	err := m.semantic.AddFact(concept, details)
	return m.finishMutation(err, event.FactStored, map[string]interface{}{
		"user":    m.user,
		"concept": concept,
	}, func() {
		if m.metrics != nil {
			m.metrics.IncFactsStored()
		}
	})
}

// Fact returns the attributes stored for a concept.
func (m *Memory) Fact(concept string) (map[string]any, bool, error) {
	return m.semantic.Fact(concept)
}

// SearchFacts searches semantic memory.
func (m *Memory) SearchFacts(query string) ([]Fact, error) {
	if m.metrics != nil {
		m.metrics.IncSearches()
	}
	return m.semantic.SearchFacts(query)
}

// AddProcedure stores a named step sequence.
func (m *Memory) AddProcedure(name string, steps []string, context string) error {
	err := m.procedural.AddProcedure(name, steps, context)
	return m.finishMutation(err, event.ProcedureStored, map[string]interface{}{
		"user": m.user,
		"name": name,
	}, func() {
		if m.metrics != nil {
			m.metrics.IncProceduresStored()
		}
	})
}

// UpdateProcedure replaces an existing procedure; ok=false when unknown.
func (m *Memory) UpdateProcedure(name string, steps []string, context string) (bool, error) {
	return m.procedural.UpdateProcedure(name, steps, context)
}

// Procedure returns the procedure stored under a name.
func (m *Memory) Procedure(name string) (Procedure, bool, error) {
	return m.procedural.Procedure(name)
}

// SearchProcedures searches procedural memory.
func (m *Memory) SearchProcedures(query string) ([]NamedProcedure, error) {
	if m.metrics != nil {
		m.metrics.IncSearches()
	}
	return m.procedural.SearchProcedures(query)
}

// AddInteraction appends an episodic record for a query/response exchange.
func (m *Memory) AddInteraction(query, response string, metadata map[string]any) (Interaction, error) {
	rec, err := m.episodic.AddInteraction(query, response, metadata)
	err = m.finishMutation(err, event.InteractionStored, map[string]interface{}{
		"user": m.user,
		"id":   rec.ID,
		"seq":  rec.Seq,
	}, func() {
		if m.metrics != nil {
			m.metrics.IncInteractionsStored()
		}
	})
	return rec, err
}

// Interaction returns a single episodic record by ID.
func (m *Memory) Interaction(id string) (Interaction, bool, error) {
	return m.episodic.Interaction(id)
}

// Recent returns the last n interactions, oldest first; n <= 0 returns none.
func (m *Memory) Recent(n int) ([]Interaction, error) {
	return m.episodic.Recent(n)
}

// SearchInteractions searches episodic memory.
func (m *Memory) SearchInteractions(query string) ([]Interaction, error) {
	if m.metrics != nil {
		m.metrics.IncSearches()
	}
	return m.episodic.SearchInteractions(query)
}

// RecallResult groups cross-kind search results.
type RecallResult struct {
	Facts        []Fact           `json:"facts"`
	Procedures   []NamedProcedure `json:"procedures"`
	Interactions []Interaction    `json:"interactions"`
}

// Recall searches all three memory kinds for a query.
func (m *Memory) Recall(query string) (RecallResult, error) {
	if m.metrics != nil {
		m.metrics.IncSearches()
	}

	facts, err := m.semantic.SearchFacts(query)
	if err != nil {
		return RecallResult{}, err
	}
	procs, err := m.procedural.SearchProcedures(query)
	if err != nil {
		return RecallResult{}, err
	}
	interactions, err := m.episodic.SearchInteractions(query)
	if err != nil {
		return RecallResult{}, err
	}
	return RecallResult{Facts: facts, Procedures: procs, Interactions: interactions}, nil
}

// Counts returns the number of entries per memory kind.
func (m *Memory) Counts() (map[string]int, error) {
	counts := make(map[string]int, 3)
	for kind, count := range map[string]func() (int, error){
		NamespaceSemantic:   m.semantic.Count,
		NamespaceEpisodic:   m.episodic.Count,
		NamespaceProcedural: m.procedural.Count,
	} {
		n, err := count()
		if err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, nil
}

// Save flushes the store explicitly.
func (m *Memory) Save() error {
	if err := m.store.Save(); err != nil {
		if m.metrics != nil {
			m.metrics.IncSaveFailures()
		}
		m.emit(event.StoreSaveFailed, map[string]interface{}{
			"user":  m.user,
			"error": err.Error(),
		})
		return err
	}
	m.emit(event.StoreSaved, map[string]interface{}{"user": m.user})
	return nil
}

// Close releases the store. The persisted file becomes free for another
// instance to own.
func (m *Memory) Close() error {
	return m.store.Close()
}

// finishMutation applies the shared post-mutation policy: count and emit on
// success, and downgrade a persistence failure to a logged warning while
// still returning it — the in-memory mutation is never rolled back.
func (m *Memory) finishMutation(err error, evType event.EventType, data map[string]interface{}, count func()) error {
	if err != nil {
		if errors.AsCode(err) != errors.CodePersistence {
			return err
		}
		// Mutation applied, durability lost. Keep going.
		m.logger.Warn("memory saved in-process only, persist failed",
			"user", m.user, "event", string(evType), "error", err)
		if m.metrics != nil {
			m.metrics.IncSaveFailures()
		}
		m.emit(event.StoreSaveFailed, map[string]interface{}{
			"user":  m.user,
			"error": err.Error(),
		})
		count()
		m.emit(evType, data)
		return err
	}

	count()
	if m.metrics != nil {
		m.metrics.IncSaves()
	}
	m.emit(evType, data)
	return nil
}

func (m *Memory) emit(t event.EventType, data map[string]interface{}) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Emit(event.NewEvent(t, data)); err != nil {
		m.logger.Warn("event hook failed", "event", string(t), "error", err)
	}
}

// GenerateContext assembles a bounded text block of relevant memories for a
// query. Output is deterministic for identical stored state and query.
func (m *Memory) GenerateContext(query string) (string, error) {
	start := time.Now()

	facts, err := m.semantic.SearchFacts(query)
	if err != nil {
		return "", err
	}
	procs, err := m.procedural.SearchProcedures(query)
	if err != nil {
		return "", err
	}
	recent, err := m.episodic.Recent(m.recentWindow)
	if err != nil {
		return "", err
	}
	matched, err := m.episodic.SearchInteractions(query)
	if err != nil {
		return "", err
	}

	out := renderContext(contextInput{
		Facts:        facts,
		Procedures:   procs,
		Recent:       recent,
		Matched:      matched,
		PerKindLimit: m.perKindLimit,
		MaxChars:     m.maxContextChars,
	})

	if m.metrics != nil {
		m.metrics.RecordContextBuild(time.Since(start))
	}
	m.emit(event.ContextGenerated, map[string]interface{}{
		"user":  m.user,
		"query": query,
		"chars": len(out),
	})
	m.logger.Debug("generated context",
		"user", m.user,
		"facts", len(facts),
		"procedures", len(procs),
		"interactions", fmt.Sprintf("%d+%d", len(recent), len(matched)),
		"chars", len(out),
	)
	return out, nil
}
