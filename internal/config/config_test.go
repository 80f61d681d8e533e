package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FahimAnayet/gutter/internal/baseline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAbsentFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defaults := Defaults()
	if cfg.Baseline.Source != defaults.Baseline.Source {
		t.Errorf("source = %q, want default %q", cfg.Baseline.Source, defaults.Baseline.Source)
	}
	if !cfg.Tracking.AutoEnable {
		t.Error("auto_enable must default to true")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
baseline:
  source: disk
tracking:
  auto_enable: false
  include: ["**/*.go"]
  exclude: ["**/vendor/**"]
  queue_size: 16
watcher:
  enabled: true
  debounce_ms: 250
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Baseline.Source != "disk" {
		t.Errorf("source = %q", cfg.Baseline.Source)
	}
	if cfg.Tracking.AutoEnable {
		t.Error("auto_enable should be false")
	}
	if cfg.Tracking.QueueSize != 16 {
		t.Errorf("queue_size = %d", cfg.Tracking.QueueSize)
	}
	if cfg.WatcherDebounce() != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.WatcherDebounce())
	}
}

func TestLoadRejectsBadSource(t *testing.T) {
	path := writeConfig(t, "baseline:\n  source: svn\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown baseline source")
	}
}

func TestLoadRejectsBadGlob(t *testing.T) {
	path := writeConfig(t, "tracking:\n  include: [\"[\"]\n  queue_size: 8\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an invalid glob")
	}
}

func TestValidateCacheNeedsPath(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when the cache has no path")
	}
}

func TestMode(t *testing.T) {
	cfg := Defaults()
	if mode := cfg.Mode(); mode.Source != baseline.FromVersionControl {
		t.Errorf("default mode = %v, want version control", mode.Source)
	}

	cfg.Baseline.Source = "disk"
	cfg.Baseline.Revision = "main"
	mode := cfg.Mode()
	if mode.Source != baseline.FromDisk {
		t.Errorf("mode = %v, want disk", mode.Source)
	}
	if mode.Revision != "main" {
		t.Errorf("revision = %q", mode.Revision)
	}
}

func TestTrackable(t *testing.T) {
	cfg := Defaults()
	cfg.Tracking.Include = []string{"**/*.go", "**/*.md"}
	cfg.Tracking.Exclude = []string{"**/vendor/**"}

	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/project/main.go", true},
		{"/home/u/project/README.md", true},
		{"/home/u/project/main.rs", false},
		{"/home/u/project/vendor/dep/dep.go", false},
	}
	for _, tt := range tests {
		if got := cfg.Trackable(tt.path); got != tt.want {
			t.Errorf("Trackable(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestTrackableDefaultIncludesEverything(t *testing.T) {
	cfg := Defaults()
	if !cfg.Trackable("/any/file.txt") {
		t.Fatal("default config must track every document")
	}
}
