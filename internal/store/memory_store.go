package store

import (
	"sort"
	"sync"
)

// MemoryStore keeps all namespaces in process memory. Save and Load are
// no-ops; state lives for the process lifetime only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]any),
	}
}

// Put inserts or overwrites value under (namespace, key).
func (s *MemoryStore) Put(namespace, key string, value any) error {
	if err := validateKey(namespace, key); err != nil {
		return err
	}
	if _, err := marshalValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]any)
		s.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

// Get returns the stored value, or ok=false when absent.
func (s *MemoryStore) Get(namespace, key string) (any, bool, error) {
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
func (s *MemoryStore) List(namespace string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listEntries(s.data[namespace]), nil
}

// Search returns entries matching the query, sorted by key.
func (s *MemoryStore) Search(namespace, query string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return searchEntries(s.data[namespace], query), nil
}

// Save is a no-op for the memory driver.
func (s *MemoryStore) Save() error { return nil }

// Load is a no-op for the memory driver.
func (s *MemoryStore) Load() error { return nil }

// Close is a no-op for the memory driver.
func (s *MemoryStore) Close() error { return nil }

// listEntries snapshots a namespace map as a key-sorted slice.
func listEntries(ns map[string]any) []Entry {
	entries := make([]Entry, 0, len(ns))
	for key, value := range ns {
		entries = append(entries, Entry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// searchEntries scans a namespace map for matching entries, key-sorted.
func searchEntries(ns map[string]any, query string) []Entry {
	entries := make([]Entry, 0)
	for key, value := range ns {
		if matches(key, value, query) {
			entries = append(entries, Entry{Key: key, Value: value})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}
