package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/engram-oss/engram/internal/errors"
)

// JSONStore persists all namespaces as a single JSON document on disk.
// Every Put triggers a save; writes go to a temp file in the same directory
// followed by a rename, so a crash mid-write never leaves a half-written
// document. A failed save is reported but leaves in-memory state valid.
type JSONStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any
	path string
}

// NewJSONStore opens a JSON-file-backed store at path. An existing file is
// loaded; a missing file yields an empty store. A corrupt file degrades to
// an empty store so a damaged memory file never blocks startup.
func NewJSONStore(path string) (*JSONStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to create storage directory", err)
	}

	s := &JSONStore{
		data: make(map[string]map[string]any),
		path: path,
	}
	if err := s.Load(); err != nil {
		// Corrupt file: start fresh rather than refusing to construct.
		s.data = make(map[string]map[string]any)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Put inserts or overwrites value under (namespace, key) and saves.
func (s *JSONStore) Put(namespace, key string, value any) error {
	if err := validateKey(namespace, key); err != nil {
		return err
	}
	if _, err := marshalValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]any)
		s.data[namespace] = ns
	}
	ns[key] = value
	s.mu.Unlock()

	return s.Save()
}

// Get returns the stored value, or ok=false when absent.
func (s *JSONStore) Get(namespace, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.data[namespace]
	if !ok {
		return nil, false, nil
	}
	value, ok := ns[key]
	return value, ok, nil
}

// List returns all entries in the namespace, sorted by key.
func (s *JSONStore) List(namespace string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listEntries(s.data[namespace]), nil
}

// Search returns entries matching the query, sorted by key.
func (s *JSONStore) Search(namespace, query string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return searchEntries(s.data[namespace], query), nil
}

// Save serializes the full document atomically: write to a temp file in the
// same directory, then rename over the target.
func (s *JSONStore) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(errors.CodeSerialization, "failed to serialize memory document", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".engram-*.json")
	if err != nil {
		return errors.Wrap(errors.CodePersistence, "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.CodePersistence, "failed to write memory file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.CodePersistence, "failed to close memory file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.CodePersistence, "failed to replace memory file", err)
	}
	return nil
}

// Load reads the persisted document and replaces in-memory state. A missing
// file initializes an empty store; unreadable or corrupt input fails with a
// PERSISTENCE error and leaves prior state intact.
func (s *JSONStore) Load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.data = make(map[string]map[string]any)
			s.mu.Unlock()
			return nil
		}
		return errors.Wrap(errors.CodePersistence, "failed to read memory file", err)
	}

	var data map[string]map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return errors.Wrap(errors.CodePersistence,
			fmt.Sprintf("corrupt memory file: %s", s.path), err).
			WithSuggestion("delete or repair the file to start fresh")
	}
	if data == nil {
		data = make(map[string]map[string]any)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Close is a no-op: all writes are flushed on Put.
func (s *JSONStore) Close() error { return nil }
