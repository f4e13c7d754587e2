// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/chunk"
	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/observability"
)

var (
	validContextBackends   = []string{"json", "sqlite"}
	validFormatterBackends = []string{"openai", "claude", "echo"}
	validLogFormats        = []string{"text", "json"}
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks every section and returns all problems found as
// ValidationErrors, or nil.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors
	errs = append(errs, v.ValidateChunking(&cfg.Chunking)...)
	errs = append(errs, v.ValidateFiles(&cfg.Files)...)
	errs = append(errs, v.ValidateContext(&cfg.Context)...)
	errs = append(errs, v.ValidateFormatter(&cfg.Formatter)...)
	errs = append(errs, v.ValidateLogging(&cfg.Logging)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateChunking validates chunking configuration.
func (v *Validator) ValidateChunking(cfg *ChunkingConfig) []*ValidationError {
	var errs []*ValidationError
	if cfg.WordLimit < model.MinWordLimit || cfg.WordLimit > model.MaxWordLimit {
		errs = append(errs, &ValidationError{
			Field:   "chunking.word_limit",
			Value:   cfg.WordLimit,
			Message: fmt.Sprintf("must be between %d and %d", model.MinWordLimit, model.MaxWordLimit),
		})
	}
	if _, err := chunk.New(cfg.Strategy); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "chunking.strategy",
			Value:   cfg.Strategy,
			Message: oneOf(chunk.Names()),
		})
	}
	return errs
}

// ValidateFiles validates file locations.
func (v *Validator) ValidateFiles(cfg *FilesConfig) []*ValidationError {
	var errs []*ValidationError
	for field, value := range map[string]string{
		"files.prompt":  cfg.Prompt,
		"files.message": cfg.Message,
		"files.output":  cfg.Output,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, &ValidationError{Field: field, Message: "must be set"})
		}
	}
	slices.SortFunc(errs, func(a, b *ValidationError) int { return strings.Compare(a.Field, b.Field) })
	return errs
}

// ValidateContext validates context persistence settings.
func (v *Validator) ValidateContext(cfg *ContextConfig) []*ValidationError {
	var errs []*ValidationError
	if !slices.Contains(validContextBackends, cfg.Backend) {
		errs = append(errs, &ValidationError{
			Field:   "context.backend",
			Value:   cfg.Backend,
			Message: oneOf(validContextBackends),
		})
	}
	if cfg.Enabled && strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, &ValidationError{Field: "context.path", Message: "must be set when context is enabled"})
	}
	if cfg.MaxHistory < 1 {
		errs = append(errs, &ValidationError{
			Field:   "context.max_history",
			Value:   cfg.MaxHistory,
			Message: "must be at least 1",
		})
	}
	return errs
}

// ValidateFormatter validates formatter configuration.
func (v *Validator) ValidateFormatter(cfg *FormatterConfig) []*ValidationError {
	var errs []*ValidationError
	if !slices.Contains(validFormatterBackends, cfg.Backend) {
		errs = append(errs, &ValidationError{
			Field:   "formatter.backend",
			Value:   cfg.Backend,
			Message: oneOf(validFormatterBackends),
		})
	}
	if err := validDuration("formatter.timeout", cfg.Timeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxRetries < 1 {
		errs = append(errs, &ValidationError{
			Field:   "formatter.max_retries",
			Value:   cfg.MaxRetries,
			Message: "must be at least 1",
		})
	}
	if err := validDuration("formatter.cache.ttl", cfg.Cache.TTL); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ValidateLogging validates logging configuration.
func (v *Validator) ValidateLogging(cfg *LoggingConfig) []*ValidationError {
	var errs []*ValidationError
	if _, err := observability.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: oneOf([]string{"debug", "info", "warn", "error"}),
		})
	}
	if cfg.Format != "" && !slices.Contains(validLogFormats, strings.ToLower(cfg.Format)) {
		errs = append(errs, &ValidationError{
			Field:   "logging.format",
			Value:   cfg.Format,
			Message: oneOf(validLogFormats),
		})
	}
	return errs
}

func validDuration(field, value string) *ValidationError {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return &ValidationError{Field: field, Value: value, Message: "must be a duration such as 30s or 5m"}
	}
	if d <= 0 {
		return &ValidationError{Field: field, Value: value, Message: "must be positive"}
	}
	return nil
}

func oneOf(values []string) string {
	return fmt.Sprintf("must be one of: %s", strings.Join(values, ", "))
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
