package cli

import (
	"fmt"

	"github.com/engram-oss/engram/internal/config"
	"github.com/engram-oss/engram/internal/event"
	"github.com/engram-oss/engram/internal/memory"
	"github.com/engram-oss/engram/internal/telemetry"
	"github.com/spf13/viper"
)

// cliRuntime bundles the components every command needs.
type cliRuntime struct {
	Config  *config.Config
	Logger  *telemetry.Logger
	Metrics *telemetry.Metrics
	Memory  *memory.Memory

	bus      *event.Bus
	exporter *telemetry.JSONFileExporter
}

// loadConfig resolves the configuration source: an explicit --config path
// wins, then the file viper discovered, then the working directory default.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return config.LoadFile(used)
	}
	return config.Load(".")
}

// setup loads configuration and wires logger, metrics, hooks, and the
// per-user memory instance.
func setup() (*cliRuntime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if userFlag != "" {
		cfg.User = userFlag
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger := telemetry.NewLoggerWithFormat(level, cfg.Logging.Format)
	if cfg.Logging.File != "" {
		if err := logger.WithFile(cfg.Logging.File); err != nil {
			return nil, err
		}
	}

	metrics := telemetry.NewMetrics()
	rt := &cliRuntime{Config: cfg, Logger: logger, Metrics: metrics}
	if cfg.Metrics.Enabled {
		exporter, err := telemetry.NewJSONFileExporter(cfg.Metrics.Path)
		if err != nil {
			return nil, err
		}
		metrics.SetExporter(exporter)
		rt.exporter = exporter
	}

	var bus *event.Bus
	if cfg.Hooks.Enabled {
		bus = event.NewBus(logger)
		registerHooks(bus, cfg, logger)
	}
	rt.bus = bus

	mem, err := memory.New(memory.Options{
		User:            cfg.User,
		Dir:             cfg.Storage.Dir,
		Driver:          cfg.Storage.Driver,
		Persist:         cfg.Storage.Enabled,
		RecentWindow:    cfg.Context.RecentWindow,
		PerKindLimit:    cfg.Context.PerKindLimit,
		MaxContextChars: cfg.Context.MaxChars,
		Logger:          logger,
		Metrics:         metrics,
		Bus:             bus,
	})
	if err != nil {
		return nil, err
	}
	rt.Memory = mem
	return rt, nil
}

// registerHooks builds hooks from config and attaches them to the bus.
func registerHooks(bus *event.Bus, cfg *config.Config, logger *telemetry.Logger) {
	for _, hc := range cfg.Hooks.Hooks {
		events := make([]event.EventType, 0, len(hc.Events))
		for _, e := range hc.Events {
			events = append(events, event.EventType(e))
		}

		switch hc.Type {
		case "log":
			bus.Register(event.NewLogHook(hc.Name, events, logger, hc.Level))
		case "webhook":
			bus.Register(event.NewWebhookHook(hc.Name, hc.URL, events, hc.Blocking))
		}
	}
}

// reopenMemory rebuilds the memory instance after a config override. The
// previous instance is closed first so the store file is free to reopen.
func (rt *cliRuntime) reopenMemory() error {
	if rt.Memory != nil {
		rt.Memory.Close()
	}
	mem, err := memory.New(memory.Options{
		User:            rt.Config.User,
		Dir:             rt.Config.Storage.Dir,
		Driver:          rt.Config.Storage.Driver,
		Persist:         rt.Config.Storage.Enabled,
		RecentWindow:    rt.Config.Context.RecentWindow,
		PerKindLimit:    rt.Config.Context.PerKindLimit,
		MaxContextChars: rt.Config.Context.MaxChars,
		Logger:          rt.Logger,
		Metrics:         rt.Metrics,
		Bus:             rt.bus,
	})
	if err != nil {
		return err
	}
	rt.Memory = mem
	return nil
}

// Close releases the memory store and any open telemetry files. When an
// exporter is configured, a final metrics snapshot is flushed first.
func (rt *cliRuntime) Close() {
	if rt.Memory != nil {
		rt.Memory.Close()
	}
	if rt.exporter != nil {
		if err := rt.Metrics.Export("session.closed", map[string]string{"user": rt.Config.User}); err != nil {
			rt.Logger.Warn("failed to export metrics snapshot", "error", err)
		}
		rt.exporter.Close()
	}
	rt.Logger.Close()
}
