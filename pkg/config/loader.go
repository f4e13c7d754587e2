// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "DOCFORMAT"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".docformat.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".docformat"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	configPath  string
	skipGlobal  bool
	getenv      func(string) string
	sources     []string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigPath replaces the project config with an explicit file, which
// must exist.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Sources returns the files applied by the last Load, in order.
func (l *Loader) Sources() []string {
	return l.sources
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.docformat/config.yaml)
// 3. Project Config (./.docformat.yaml, or the explicit path)
// 4. Environment Variables (DOCFORMAT_*)
//
// Missing optional files are skipped; files that exist but do not parse are
// reported as *ConfigError.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.sources = nil

	if !l.skipGlobal {
		if err := l.applyOptional(cfg, GetDefaultConfigPath()); err != nil {
			return nil, err
		}
	}

	if l.configPath != "" {
		if err := l.apply(cfg, l.configPath); err != nil {
			return nil, err
		}
	} else if err := l.applyOptional(cfg, GetProjectConfigPath(l.projectRoot)); err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of defaults.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := l.apply(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyOptional(cfg *Config, path string) error {
	err := l.apply(cfg, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// apply decodes path over cfg. Keys absent from the file keep their
// current values.
func (l *Loader) apply(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	l.sources = append(l.sources, path)
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Format: DOCFORMAT_SECTION__KEY=value
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	bindings := envBindings(cfg)
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := l.getenv(EnvPrefix + "_" + key)
		if v == "" {
			continue
		}
		if err := bindings[key](v); err != nil {
			return &ConfigError{
				Field: strings.ToLower(strings.ReplaceAll(key, "__", ".")),
				Err:   err,
			}
		}
	}
	return nil
}

func envBindings(cfg *Config) map[string]func(string) error {
	return map[string]func(string) error{
		"CHUNKING__WORD_LIMIT":      setInt(&cfg.Chunking.WordLimit),
		"CHUNKING__STRATEGY":        setString(&cfg.Chunking.Strategy),
		"FILES__PROMPT":             setString(&cfg.Files.Prompt),
		"FILES__MESSAGE":            setString(&cfg.Files.Message),
		"FILES__OUTPUT":             setString(&cfg.Files.Output),
		"CONTEXT__ENABLED":          setBool(&cfg.Context.Enabled),
		"CONTEXT__BACKEND":          setString(&cfg.Context.Backend),
		"CONTEXT__PATH":             setString(&cfg.Context.Path),
		"CONTEXT__MAX_HISTORY":      setInt(&cfg.Context.MaxHistory),
		"FORMATTER__BACKEND":        setString(&cfg.Formatter.Backend),
		"FORMATTER__MODEL":          setString(&cfg.Formatter.Model),
		"FORMATTER__BASE_URL":       setString(&cfg.Formatter.BaseURL),
		"FORMATTER__TIMEOUT":        setString(&cfg.Formatter.Timeout),
		"FORMATTER__MAX_RETRIES":    setInt(&cfg.Formatter.MaxRetries),
		"FORMATTER__CLAUDE_PATH":    setString(&cfg.Formatter.ClaudePath),
		"FORMATTER__CACHE__ENABLED": setBool(&cfg.Formatter.Cache.Enabled),
		"FORMATTER__CACHE__DIR":     setString(&cfg.Formatter.Cache.Dir),
		"FORMATTER__CACHE__TTL":     setString(&cfg.Formatter.Cache.TTL),
		"LOGGING__LEVEL":            setString(&cfg.Logging.Level),
		"LOGGING__FORMAT":           setString(&cfg.Logging.Format),
	}
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "config error in " + e.Path + ": " + e.Err.Error()
	}
	if e.Field != "" {
		return "config error for " + e.Field + ": " + e.Err.Error()
	}
	return "config error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DetectProjectRoot finds the project root by looking for the config file.
func DetectProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectConfigFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ".", nil
		}
		dir = parent
	}
}

// GetEnvConfig returns all environment variables that start with DOCFORMAT_.
func GetEnvConfig() map[string]string {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			kv := strings.SplitN(env, "=", 2)
			if len(kv) == 2 {
				result[kv[0]] = kv[1]
			}
		}
	}

	return result
}
