// Package config holds the typed server configuration. It is loaded and
// validated once at startup and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/FahimAnayet/gutter/internal/baseline"
)

// Config is the full server configuration.
type Config struct {
	Baseline BaselineConfig `yaml:"baseline"`
	Tracking TrackingConfig `yaml:"tracking"`
	Cache    CacheConfig    `yaml:"cache"`
	Watcher  WatcherConfig  `yaml:"watcher"`
}

// BaselineConfig selects what documents are compared against.
type BaselineConfig struct {
	// Source is "git" or "disk".
	Source string `yaml:"source"`
	// Revision is the git revision compared against; empty means HEAD.
	Revision string `yaml:"revision"`
}

// TrackingConfig controls which documents are tracked and how.
type TrackingConfig struct {
	// AutoEnable starts tracking as soon as a document is opened.
	AutoEnable bool `yaml:"auto_enable"`
	// Include and Exclude are doublestar globs over slash-separated paths.
	// A document is trackable when it matches any include and no exclude.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	// QueueSize bounds each document's pending reconciliation queue.
	QueueSize int `yaml:"queue_size"`
}

// CacheConfig controls the optional baseline blob cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatcherConfig controls detection of baseline changes made outside the
// editor.
type WatcherConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Baseline: BaselineConfig{Source: "git"},
		Tracking: TrackingConfig{
			AutoEnable: true,
			Include:    []string{"**"},
			QueueSize:  64,
		},
		Cache:   CacheConfig{Enabled: false},
		Watcher: WatcherConfig{Enabled: true, DebounceMS: 100},
	}
}

// DefaultPath is the conventional config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gutter", "config.yaml"), nil
}

// Load reads and validates the config file at path. An absent file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration once; a validated Config needs no
// further checks at use sites.
func (c *Config) Validate() error {
	switch c.Baseline.Source {
	case "git", "disk":
	default:
		return fmt.Errorf("baseline.source must be \"git\" or \"disk\", got %q", c.Baseline.Source)
	}

	for _, pattern := range append(append([]string{}, c.Tracking.Include...), c.Tracking.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	if c.Tracking.QueueSize <= 0 {
		return fmt.Errorf("tracking.queue_size must be positive, got %d", c.Tracking.QueueSize)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path is required when the cache is enabled")
	}
	if c.Watcher.DebounceMS < 0 {
		return fmt.Errorf("watcher.debounce_ms must not be negative, got %d", c.Watcher.DebounceMS)
	}
	return nil
}

// Mode translates the baseline section into the provider's mode.
func (c *Config) Mode() baseline.Mode {
	mode := baseline.Mode{Revision: c.Baseline.Revision}
	if c.Baseline.Source == "disk" {
		mode.Source = baseline.FromDisk
	} else {
		mode.Source = baseline.FromVersionControl
	}
	return mode
}

// WatcherDebounce returns the coalescing window for external write events.
func (c *Config) WatcherDebounce() time.Duration {
	return time.Duration(c.Watcher.DebounceMS) * time.Millisecond
}

// Trackable reports whether the document at path should be tracked.
func (c *Config) Trackable(path string) bool {
	slashed := filepath.ToSlash(path)

	included := false
	for _, pattern := range c.Tracking.Include {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range c.Tracking.Exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return false
		}
	}
	return true
}
