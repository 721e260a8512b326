// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Loader loads and resolves sandbox presets.
type Loader struct {
	configs   []*PresetsConfig
	resolved  map[string]*Preset
	resolving map[string]bool
	logger    *slog.Logger
}

// NewLoader creates a new preset loader.
func NewLoader() *Loader {
	return &Loader{
		configs:   make([]*PresetsConfig, 0),
		resolved:  make(map[string]*Preset),
		resolving: make(map[string]bool),
	}
}

// SetLogger enables verbose logging during preset loading.
// When set, the loader logs details about which files are checked,
// which presets are loaded, and inheritance resolution.
func (l *Loader) SetLogger(logger *slog.Logger) {
	l.logger = logger
}

// log is a helper that only logs if a logger is configured.
func (l *Loader) log(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

// LoadDefaults loads the built-in default presets.
func (l *Loader) LoadDefaults() error {
	l.log("loading built-in default presets")
	config, err := ParsePresetsConfig([]byte(defaultPresetsYAML))
	if err != nil {
		return fmt.Errorf("failed to parse default presets: %w", err)
	}
	l.configs = append(l.configs, config)
	l.log("loaded default presets", "count", len(config.Presets))
	return nil
}

// LoadFile loads presets from a YAML, JSON, or JSONC file.
func (l *Loader) LoadFile(path string) error {
	l.log("loading presets from file", "path", path)
	config, err := LoadPresetsConfig(path)
	if err != nil {
		l.log("failed to load presets", "path", path, "error", err)
		return err
	}
	l.configs = append(l.configs, config)
	l.log("loaded presets from file", "path", path, "count", len(config.Presets))
	return nil
}

// LoadDirectory loads all preset files from a directory.
func (l *Loader) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Directory doesn't exist - not an error.
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json", ".jsonc":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := l.LoadFile(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// Resolve resolves a preset by name, applying inheritance.
// Later-loaded configs override earlier ones.
func (l *Loader) Resolve(name string) (*Preset, error) {
	l.log("resolving preset", "name", name)

	// Check cache.
	if preset, ok := l.resolved[name]; ok {
		l.log("preset found in cache", "name", name)
		return preset, nil
	}

	if l.resolving[name] {
		return nil, fmt.Errorf("preset inheritance cycle through %q", name)
	}

	// Find preset in configs (last one wins).
	var base *Preset
	for _, config := range l.configs {
		if preset, ok := config.Presets[name]; ok {
			base = preset
		}
	}

	if base == nil {
		l.log("preset not found", "name", name)
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	l.log("found preset definition", "name", name)

	// Resolve inheritance.
	var preset *Preset
	if base.Inherit != "" {
		l.log("resolving parent preset", "child", name, "parent", base.Inherit)
		l.resolving[name] = true
		parent, err := l.Resolve(base.Inherit)
		delete(l.resolving, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent preset %q: %w", base.Inherit, err)
		}
		l.log("merging parent into child", "child", name, "parent", base.Inherit)
		preset = MergePresets(parent, base)
	} else {
		preset = base.Clone()
	}

	// Cache resolved preset.
	l.resolved[name] = preset
	l.log("preset resolved",
		"name", name,
		"switches", len(preset.Switches),
		"env_vars", len(preset.Env),
	)
	return preset, nil
}

// List returns all available preset names.
func (l *Loader) List() []string {
	names := make(map[string]bool)
	for _, config := range l.configs {
		for name := range config.Presets {
			names[name] = true
		}
	}

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// ConfigSearchPaths returns the paths to search for preset configs.
func ConfigSearchPaths() []string {
	paths := []string{}

	// User config directory.
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "firejail", "presets.yaml"))
	}

	// XDG config home.
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "firejail", "presets.yaml"))
	}

	// Home directory.
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "firejail", "presets.yaml"))
	}

	// System config.
	paths = append(paths, "/etc/firejail/presets.yaml")

	// Project config directory (when running from a checkout).
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, "config", "presets.yaml"))
	}

	return paths
}

// LoadFromSearchPaths creates a loader and loads presets from standard locations.
func LoadFromSearchPaths() (*Loader, error) {
	return LoadFromSearchPathsWithLogger(nil)
}

// LoadFromSearchPathsWithLogger creates a loader with optional verbose logging.
func LoadFromSearchPathsWithLogger(logger *slog.Logger) (*Loader, error) {
	loader := NewLoader()
	loader.SetLogger(logger)

	// Load defaults first.
	if err := loader.LoadDefaults(); err != nil {
		return nil, err
	}

	// Load from search paths (files that exist).
	for _, path := range ConfigSearchPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := loader.LoadFile(path); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else {
			loader.log("preset config not found", "path", path)
		}
	}

	return loader, nil
}
