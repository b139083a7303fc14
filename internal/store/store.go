package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/engram-oss/engram/internal/errors"
)

// Entry is a key-value pair returned by List and Search.
type Entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Store is a namespaced key-value store with optional persistence.
//
// Reads never fail for missing data: Get reports absence through its boolean,
// and Search/List return empty slices for unknown namespaces. The persisted
// file is owned by exactly one Store instance at a time; concurrent writers
// from multiple instances produce undefined final-file state (last save wins).
type Store interface {
	// Put inserts or overwrites value under (namespace, key).
	// Fails with a VALIDATION error for an empty namespace or key, and with
	// a SERIALIZATION error if value cannot be represented as JSON.
	Put(namespace, key string, value any) error

	// Get returns the stored value, or ok=false when the namespace or key
	// is absent.
	Get(namespace, key string) (value any, ok bool, err error)

	// List returns all entries in the namespace, sorted by key.
	List(namespace string) ([]Entry, error)

	// Search returns entries whose key or serialized value contains query
	// as a case-insensitive substring, sorted by key.
	Search(namespace, query string) ([]Entry, error)

	// Save flushes state to the backing location. No-op for drivers that
	// persist immediately or not at all.
	Save() error

	// Load replaces state from the backing location. A missing file yields
	// an empty store; unreadable or corrupt input fails with a PERSISTENCE
	// error and leaves prior state intact.
	Load() error

	// Close releases any resources held by the store.
	Close() error
}

// Supported driver names for Open.
const (
	DriverMemory = "memory"
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open creates a store for the given driver. Path is ignored by the memory
// driver. The json and sqlite drivers load existing data before returning;
// corrupt data degrades to an empty store rather than failing construction.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverJSON:
		return NewJSONStore(path)
	case DriverSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, errors.New(errors.CodeDriverInvalid,
			fmt.Sprintf("unsupported store driver: %s", driver)).
			WithSuggestion("use one of: memory, json, sqlite")
	}
}

// validateKey rejects empty namespace or key identifiers.
func validateKey(namespace, key string) error {
	if strings.TrimSpace(namespace) == "" {
		return errors.New(errors.CodeValidation, "namespace must not be empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New(errors.CodeValidation, "key must not be empty")
	}
	return nil
}

// marshalValue serializes a value, mapping failures to SERIALIZATION errors.
func marshalValue(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSerialization, "value is not JSON-serializable", err).
			WithSuggestion("store only plain documents: maps, slices, strings, numbers, booleans")
	}
	return data, nil
}

// matches reports whether an entry matches a query: case-insensitive
// substring over the key or the serialized value.
func matches(key string, value any, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(key), q) {
		return true
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), q)
}
