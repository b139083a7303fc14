package testutil

import (
	"github.com/engram-oss/engram/internal/config"
	"github.com/engram-oss/engram/internal/errors"
	"github.com/engram-oss/engram/internal/store"
	"github.com/engram-oss/engram/internal/telemetry"
)

// FailingStore wraps the in-process store and simulates persistence
// failures: mutations apply in memory but every flush reports an error,
// the same shape a full disk or unwritable file produces.
type FailingStore struct {
	inner    *store.MemoryStore
	FailPuts bool // Put applies, then reports a persistence error
	Failures int  // count of simulated failures
}

func NewFailingStore() *FailingStore {
	return &FailingStore{inner: store.NewMemoryStore(), FailPuts: true}
}

func (f *FailingStore) persistErr() error {
	f.Failures++
	return errors.New(errors.CodePersistence, "simulated write failure")
}

func (f *FailingStore) Put(namespace, key string, value any) error {
	if err := f.inner.Put(namespace, key, value); err != nil {
		return err
	}
	if f.FailPuts {
		return f.persistErr()
	}
	return nil
}

func (f *FailingStore) Get(namespace, key string) (any, bool, error) {
	return f.inner.Get(namespace, key)
}

func (f *FailingStore) List(namespace string) ([]store.Entry, error) {
	return f.inner.List(namespace)
}

func (f *FailingStore) Search(namespace, query string) ([]store.Entry, error) {
	return f.inner.Search(namespace, query)
}

func (f *FailingStore) Save() error {
	if f.FailPuts {
		return f.persistErr()
	}
	return nil
}

func (f *FailingStore) Load() error  { return nil }
func (f *FailingStore) Close() error { return f.inner.Close() }

// TestLogger returns a logger suitable for tests (quiet, no file output).
func TestLogger() *telemetry.Logger {
	return telemetry.NewLogger("error")
}

// TestConfig returns a minimal config for testing.
func TestConfig() *config.Config {
	cfg := &config.Config{
		Name:    "test-project",
		Version: "1.0",
		User:    "test-user",
	}
	cfg.Storage.Driver = "memory"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "text"
	config.ApplyDefaults(cfg)
	return cfg
}
