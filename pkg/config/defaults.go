// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

// Default file locations, relative to the working directory.
const (
	DefaultDataDir     = "data"
	DefaultPromptFile  = "data/prompt.md"
	DefaultMessageFile = "data/message.md"
	DefaultOutputFile  = "data/output.md"
	DefaultContextFile = "data/context.json"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			WordLimit: model.DefaultWordLimit,
			Strategy:  "even",
		},
		Files: FilesConfig{
			Prompt:  DefaultPromptFile,
			Message: DefaultMessageFile,
			Output:  DefaultOutputFile,
		},
		Context: ContextConfig{
			Enabled:    true,
			Backend:    "json",
			Path:       DefaultContextFile,
			MaxHistory: 10,
		},
		Formatter: DefaultFormatterConfig(),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultFormatterConfig returns default formatter configuration.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Backend:    "openai",
		Model:      "gpt-4",
		Timeout:    "300s",
		MaxRetries: 3,
		Cache: CacheConfig{
			Enabled: false,
			Dir:     GetDefaultCachePath(),
		},
	}
}

// GetDefaultCachePath returns the default cache directory path.
func GetDefaultCachePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, "cache")
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
