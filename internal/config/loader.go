package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the expected configuration file name.
const ConfigFileName = "engram.yaml"

// Load loads the main project configuration from dir. A missing file yields
// the default configuration.
func Load(dir string) (*Config, error) {
	configFile := filepath.Join(dir, ConfigFileName)

	content, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if no file exists
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(content)
}

// LoadFile loads configuration from an explicit file path. Unlike Load, a
// missing file is an error: the caller asked for that file specifically.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(content)
}

func parse(content []byte) (*Config, error) {
	// Interpolate environment variables
	content = []byte(interpolateEnv(string(content)))

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// interpolateEnv replaces ${env.VAR} and ${VAR} with environment values
func interpolateEnv(content string) string {
	// Match ${env.VAR} pattern
	envPattern := regexp.MustCompile(`\$\{env\.([^}]+)\}`)
	content = envPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // keep original if not found
	})

	// Match ${VAR} pattern
	varPattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	content = varPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := varPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return content
}

func defaultConfig() *Config {
	cfg := &Config{
		Name:    "engram-project",
		Version: "1.0",
	}
	cfg.Storage.Enabled = true
	applyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields on a hand-built configuration.
func ApplyDefaults(cfg *Config) {
	applyDefaults(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "engram-project"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	if cfg.User == "" {
		cfg.User = os.Getenv("ENGRAM_USER")
	}
	if cfg.User == "" {
		cfg.User = "default"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "json"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = ".engram"
	}
	if cfg.Context.MaxChars == 0 {
		cfg.Context.MaxChars = 4000
	}
	if cfg.Context.RecentWindow == 0 {
		cfg.Context.RecentWindow = 3
	}
	if cfg.Context.PerKindLimit == 0 {
		cfg.Context.PerKindLimit = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		cfg.Metrics.Path = filepath.Join(cfg.Storage.Dir, "metrics.jsonl")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:7390"
	}
}
