// Package config provides configuration management for semversioner using
// koanf. Configuration is loaded with priority: environment variables >
// project config (.semversioner.yml) > defaults. A legacy JSON project config
// (.semversioner.json) is still honored, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// ProjectConfigName is the YAML project config filename.
	ProjectConfigName = ".semversioner.yml"
	// LegacyProjectConfigName is the deprecated JSON project config filename.
	LegacyProjectConfigName = ".semversioner.json"
	// envPrefix namespaces environment overrides, e.g. SEMVERSIONER_TEMPLATE.
	envPrefix = "SEMVERSIONER_"
)

// Configuration holds the semversioner CLI settings.
type Configuration struct {
	// Path is the repository base path. The state directory lives beneath it.
	Path string `koanf:"path"`

	// Template is an optional path to a custom changelog template file.
	Template string `koanf:"template"`

	// CheckSrc is the glob matched against changed files by the check
	// command. Changes under matching paths require a changeset document.
	CheckSrc string `koanf:"check_src"`

	// CheckBase is the branch the check command diffs against.
	CheckBase string `koanf:"check_base"`
}

// defaults returns the built-in configuration values.
func defaults() map[string]any {
	return map[string]any{
		"path":       ".",
		"template":   "",
		"check_src":  "**/*",
		"check_base": "master",
	}
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// BasePath is where project config files are looked up (default ".").
	BasePath string
	// WarningWriter receives deprecation warnings (default os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings.
	SkipWarnings bool
}

// Load loads configuration from the given base path with default options.
func Load(basePath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{BasePath: basePath})
}

// LoadWithOptions loads configuration with custom options.
// Priority: environment variables > project config > defaults.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		k.Set(key, value)
	}

	base := opts.BasePath
	if base == "" {
		base = "."
	}
	if err := loadProjectConfig(k, base, warningWriter(opts.WarningWriter), opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Path == "" {
		cfg.Path = "."
	}
	return &cfg, nil
}

// loadProjectConfig loads the project config file, preferring YAML over the
// legacy JSON format. Only the legacy file triggers a migration warning.
func loadProjectConfig(k *koanf.Koanf, base string, w io.Writer, skipWarnings bool) error {
	yamlPath := filepath.Join(base, ProjectConfigName)
	legacyPath := filepath.Join(base, LegacyProjectConfigName)

	switch {
	case fileExists(yamlPath):
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", yamlPath, err)
		}
		if fileExists(legacyPath) && !skipWarnings {
			fmt.Fprintf(w, "Warning: legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		}
	case fileExists(legacyPath):
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(w, "Warning: using deprecated JSON config at %s; rename it to %s\n", legacyPath, ProjectConfigName)
		}
	}
	return nil
}

// warningWriter returns the warning writer or defaults to stderr.
func warningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// envTransform converts environment variable names to config keys.
// Example: SEMVERSIONER_CHECK_BASE -> check_base.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
