// Package engram provides a public API for embedding durable assistant
// memory in another program.
//
// Example usage:
//
//	import "github.com/engram-oss/engram/pkg/engram"
//
//	session, err := engram.Open("alice")
//	if err != nil { ... }
//	defer session.Close()
//
//	session.Remember("einstein", map[string]any{"birth": "1879"})
//	session.Log("who was einstein?", "a physicist", nil)
//	prompt, _ := session.Context("tell me about einstein")
package engram

import (
	"fmt"

	"github.com/engram-oss/engram/internal/config"
	"github.com/engram-oss/engram/internal/memory"
	"github.com/engram-oss/engram/internal/telemetry"
)

// Session is a handle on one user's memory. A session owns its store file
// until Close is called.
type Session struct {
	mem *memory.Memory
}

// Open creates a session for a user using configuration from the working
// directory (engram.yaml, or defaults when absent).
func Open(user string) (*Session, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if user != "" {
		cfg.User = user
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig creates a session from an explicit configuration.
func OpenWithConfig(cfg *config.Config) (*Session, error) {
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	mem, err := memory.New(memory.Options{
		User:            cfg.User,
		Dir:             cfg.Storage.Dir,
		Driver:          cfg.Storage.Driver,
		Persist:         cfg.Storage.Enabled,
		RecentWindow:    cfg.Context.RecentWindow,
		PerKindLimit:    cfg.Context.PerKindLimit,
		MaxContextChars: cfg.Context.MaxChars,
		Logger:          telemetry.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format),
	})
	if err != nil {
		return nil, err
	}
	return &Session{mem: mem}, nil
}

// Remember stores a semantic fact. Repeating a concept overwrites it.
func (s *Session) Remember(concept string, details map[string]any) error {
	return s.mem.AddFact(concept, details)
}

// Fact returns the attributes stored for a concept.
func (s *Session) Fact(concept string) (map[string]any, bool, error) {
	return s.mem.Fact(concept)
}

// Teach stores a named procedure as an ordered step sequence.
func (s *Session) Teach(name string, steps []string, context string) error {
	return s.mem.AddProcedure(name, steps, context)
}

// Procedure returns the procedure stored under a name.
func (s *Session) Procedure(name string) (memory.Procedure, bool, error) {
	return s.mem.Procedure(name)
}

// Log appends a query/response exchange to episodic memory.
func (s *Session) Log(query, response string, metadata map[string]any) (memory.Interaction, error) {
	return s.mem.AddInteraction(query, response, metadata)
}

// Recent returns the last n interactions, oldest first; n <= 0 returns none.
func (s *Session) Recent(n int) ([]memory.Interaction, error) {
	return s.mem.Recent(n)
}

// Recall searches all memory kinds for a query.
func (s *Session) Recall(query string) (memory.RecallResult, error) {
	return s.mem.Recall(query)
}

// Context builds a bounded memory context block for a query.
func (s *Session) Context(query string) (string, error) {
	return s.mem.GenerateContext(query)
}

// Counts returns the number of entries per memory kind.
func (s *Session) Counts() (map[string]int, error) {
	return s.mem.Counts()
}

// Save flushes memory to disk explicitly.
func (s *Session) Save() error {
	return s.mem.Save()
}

// Close releases the session's store.
func (s *Session) Close() error {
	return s.mem.Close()
}
