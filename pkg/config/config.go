// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for docformat.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.docformat/config.yaml
// 3. Project Config: ./.docformat.yaml
// 4. Environment Variables: DOCFORMAT_*
// 5. Command-line flags (applied by the CLI)
package config

// Config represents the complete application configuration.
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Files     FilesConfig     `yaml:"files"`
	Context   ContextConfig   `yaml:"context"`
	Formatter FormatterConfig `yaml:"formatter"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	WordLimit int    `yaml:"word_limit"` // 100..10000
	Strategy  string `yaml:"strategy"`   // even, sentence
}

// FilesConfig names the input and output files.
type FilesConfig struct {
	Prompt  string `yaml:"prompt"`
	Message string `yaml:"message"`
	Output  string `yaml:"output"`
}

// ContextConfig controls cross-run context persistence.
type ContextConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"` // json, sqlite
	Path       string `yaml:"path"`
	MaxHistory int    `yaml:"max_history"`
}

// FormatterConfig selects and tunes the formatting service.
type FormatterConfig struct {
	Backend    string      `yaml:"backend"` // openai, claude, echo
	Model      string      `yaml:"model"`
	BaseURL    string      `yaml:"base_url"`
	Timeout    string      `yaml:"timeout"`     // first-attempt timeout, e.g. "300s"
	MaxRetries int         `yaml:"max_retries"` // total attempts per chunk
	ClaudePath string      `yaml:"claude_path"`
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig controls the formatter response cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // empty keeps the cache in memory
	TTL     string `yaml:"ttl"` // empty never expires
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}
