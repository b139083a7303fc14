package config

import (
	"fmt"
	"strings"

	"github.com/engram-oss/engram/internal/errors"
)

var validDrivers = map[string]bool{"json": true, "sqlite": true, "memory": true}
var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validFormats = map[string]bool{"text": true, "json": true}
var validHookTypes = map[string]bool{"log": true, "webhook": true}

// Validate checks a loaded configuration for invalid values.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.User) == "" {
		return errors.New(errors.CodeConfigInvalid, "user must not be empty").
			WithSuggestion("set 'user' in engram.yaml or the ENGRAM_USER environment variable")
	}
	if strings.ContainsAny(cfg.User, `/\`) {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("user %q must not contain path separators", cfg.User))
	}
	if !validDrivers[cfg.Storage.Driver] {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("unknown storage driver %q", cfg.Storage.Driver)).
			WithSuggestion("use one of: json, sqlite, memory")
	}
	if cfg.Context.MaxChars < 0 {
		return errors.New(errors.CodeConfigInvalid, "context.max_chars must not be negative")
	}
	if cfg.Context.RecentWindow < 0 {
		return errors.New(errors.CodeConfigInvalid, "context.recent_window must not be negative")
	}
	if cfg.Context.PerKindLimit < 0 {
		return errors.New(errors.CodeConfigInvalid, "context.per_kind_limit must not be negative")
	}
	if !validLevels[cfg.Logging.Level] {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("unknown log level %q", cfg.Logging.Level)).
			WithSuggestion("use one of: debug, info, warn, error")
	}
	if !validFormats[cfg.Logging.Format] {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("unknown log format %q", cfg.Logging.Format)).
			WithSuggestion("use one of: text, json")
	}

	for _, h := range cfg.Hooks.Hooks {
		if err := validateHook(&h); err != nil {
			return err
		}
	}
	return nil
}

func validateHook(h *HookConfig) error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New(errors.CodeConfigInvalid, "hook name must not be empty")
	}
	if !validHookTypes[h.Type] {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("hook %q has unknown type %q", h.Name, h.Type)).
			WithSuggestion("use one of: log, webhook")
	}
	if h.Type == "webhook" && strings.TrimSpace(h.URL) == "" {
		return errors.New(errors.CodeConfigInvalid,
			fmt.Sprintf("webhook hook %q requires a url", h.Name))
	}
	return nil
}
