// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
	"github.com/docformat-toolkit/docformat/pkg/session"
)

// DefaultJSONPath is the default location of the JSON context file.
const DefaultJSONPath = "data/context.json"

// JSONStore keeps the context in a single JSON file.
type JSONStore struct {
	path       string
	maxHistory int
	logger     *slog.Logger
	now        func() time.Time
}

// NewJSONStore creates a store backed by path.
func NewJSONStore(path string, maxHistory int, logger *slog.Logger) *JSONStore {
	if path == "" {
		path = DefaultJSONPath
	}
	return &JSONStore{path: path, maxHistory: maxHistory, logger: orDiscard(logger), now: time.Now}
}

// Load implements ContextStore. A corrupt file is treated as empty.
func (s *JSONStore) Load(ctx context.Context) (*session.FormattingContext, error) {
	data, err := os.ReadFile(s.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return restore(session.Snapshot{}, s.maxHistory, s.logger), nil
	}
	if err != nil {
		return nil, errors.ContextLoadFailed(err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("context file is corrupt, starting fresh", "path", s.path, "error", err)
		return restore(session.Snapshot{}, s.maxHistory, s.logger), nil
	}
	return restore(snap, s.maxHistory, s.logger), nil
}

// Save implements ContextStore.
func (s *JSONStore) Save(ctx context.Context, fc *session.FormattingContext) error {
	data, err := json.MarshalIndent(fc.Snapshot(s.now()), "", "  ")
	if err != nil {
		return errors.ContextSaveFailed(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.ContextSaveFailed(err)
	}
	if err := fsio.WriteFileAtomic(s.path, data); err != nil {
		return errors.ContextSaveFailed(err)
	}
	return nil
}

// Close implements ContextStore.
func (s *JSONStore) Close() error { return nil }

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }
