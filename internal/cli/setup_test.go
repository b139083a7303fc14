package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// withFlags swaps the package-level flag state for the duration of a test.
func withFlags(t *testing.T, config, user string) {
	t.Helper()
	oldCfg, oldUser := cfgFile, userFlag
	cfgFile, userFlag = config, user
	t.Cleanup(func() { cfgFile, userFlag = oldCfg, oldUser })
}

func TestSetupHonorsConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "user: carol\nstorage:\n  enabled: true\n  dir: " + filepath.Join(dir, "state") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	withFlags(t, path, "")

	rt, err := setup()
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	if rt.Config.User != "carol" {
		t.Errorf("--config file ignored: user = %q, want carol", rt.Config.User)
	}
	if rt.Memory.User() != "carol" {
		t.Errorf("memory opened for %q, want carol", rt.Memory.User())
	}
	if got := rt.Memory.StorePath(); filepath.Dir(got) != filepath.Join(dir, "state") {
		t.Errorf("store path %q not under configured dir", got)
	}
}

func TestSetupMissingConfigFlagFails(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "absent.yaml"), "")

	if _, err := setup(); err == nil {
		t.Fatal("expected an error for a --config path that does not exist")
	}
}

func TestCloseExportsMetricsSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	metricsPath := filepath.Join(dir, "metrics.jsonl")
	content := "user: carol\nmetrics:\n  enabled: true\n  path: " + metricsPath + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	withFlags(t, path, "")

	rt, err := setup()
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Memory.AddFact("einstein", map[string]any{"birth": "1879"}); err != nil {
		t.Fatal(err)
	}
	rt.Close()

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("expected a metrics file after Close: %v", err)
	}
	var snap struct {
		Event   string         `json:"event"`
		Metrics map[string]any `json:"metrics"`
		Labels  map[string]string
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &snap); err != nil {
		t.Fatalf("metrics line is not JSON: %v", err)
	}
	if snap.Event != "session.closed" {
		t.Errorf("event = %q, want session.closed", snap.Event)
	}
	if snap.Metrics["facts_stored"].(float64) != 1 {
		t.Errorf("facts_stored = %v, want 1", snap.Metrics["facts_stored"])
	}
}

func TestSetupUserFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("user: carol\n"), 0644); err != nil {
		t.Fatal(err)
	}
	withFlags(t, path, "dave")

	rt, err := setup()
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	if rt.Config.User != "dave" {
		t.Errorf("user = %q, want --user override dave", rt.Config.User)
	}
}
