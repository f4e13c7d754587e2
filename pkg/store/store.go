// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package store persists the formatting context between runs.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/session"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ContextStore loads and saves a FormattingContext.
type ContextStore interface {
	// Load returns the persisted context. A missing store yields an empty
	// context and no error.
	Load(ctx context.Context) (*session.FormattingContext, error)
	// Save persists fc. Implementations never leave a half-written store.
	Save(ctx context.Context, fc *session.FormattingContext) error
	Close() error
}

// Config selects and configures a ContextStore.
type Config struct {
	Backend    string
	Path       string
	MaxHistory int
	Logger     *slog.Logger
}

// Open creates the store named by cfg.Backend.
func Open(cfg Config) (ContextStore, error) {
	switch cfg.Backend {
	case "", BackendJSON:
		return NewJSONStore(cfg.Path, cfg.MaxHistory, cfg.Logger), nil
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path, cfg.MaxHistory, cfg.Logger), nil
	default:
		return nil, errors.InvalidConfig(fmt.Sprintf("unknown context backend %q", cfg.Backend), nil)
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// restore rebuilds a context from snap, logging records that had to be dropped.
func restore(snap session.Snapshot, maxHistory int, logger *slog.Logger) *session.FormattingContext {
	fc, skipped := session.FromSnapshot(snap, maxHistory)
	for _, err := range skipped {
		logger.Warn("skipping invalid session record", "error", err)
	}
	return fc
}
