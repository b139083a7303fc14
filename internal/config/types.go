package config

// Config represents the main project configuration (engram.yaml)
type Config struct {
	Name    string        `yaml:"name" json:"name"`
	Version string        `yaml:"version" json:"version"`
	User    string        `yaml:"user" json:"user"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Context ContextConfig `yaml:"context" json:"context"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Hooks   HooksConfig   `yaml:"hooks" json:"hooks"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// StorageConfig configures the persistence layer. One persisted unit exists
// per user identifier under Dir; disabling persistence keeps all state
// process-lifetime only.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Driver  string `yaml:"driver" json:"driver"` // json, sqlite, memory
	Dir     string `yaml:"dir" json:"dir"`
}

// ContextConfig bounds context generation.
type ContextConfig struct {
	MaxChars     int `yaml:"max_chars" json:"max_chars"`           // rendered context budget
	RecentWindow int `yaml:"recent_window" json:"recent_window"`   // interactions always included
	PerKindLimit int `yaml:"per_kind_limit" json:"per_kind_limit"` // matched items per memory kind
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text, json
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// MetricsConfig configures the optional JSONL metrics exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
}

// HooksConfig configures lifecycle event hooks.
type HooksConfig struct {
	Enabled bool         `yaml:"enabled" json:"enabled"`
	Hooks   []HookConfig `yaml:"hooks" json:"hooks"`
}

// HookConfig defines a single hook.
type HookConfig struct {
	Name     string   `yaml:"name" json:"name"`
	Type     string   `yaml:"type" json:"type"`     // log, webhook
	Events   []string `yaml:"events" json:"events"` // event types to match
	Blocking bool     `yaml:"blocking" json:"blocking"`
	URL      string   `yaml:"url,omitempty" json:"url,omitempty"`     // for webhook hooks
	Level    string   `yaml:"level,omitempty" json:"level,omitempty"` // for log hooks (debug, info, warn)
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}
