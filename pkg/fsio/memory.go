// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package fsio

import (
	"strings"
	"sync"
)

// Memory is an in-process FileSystem keyed by path.
type Memory struct {
	mu     sync.Mutex
	files  map[string]string
	writes []WriteOp
}

// WriteOp records one call to Write or Clear on a Memory.
type WriteOp struct {
	Path    string
	Content string
	Append  bool
	Clear   bool
}

var _ FileSystem = (*Memory)(nil)

// NewMemory returns a Memory seeded with files.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string]string, len(files))}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Read implements FileSystem.
func (m *Memory) Read(path string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	return content, ok, nil
}

// Write implements FileSystem.
func (m *Memory) Write(path, content string, appendMode bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes = append(m.writes, WriteOp{Path: path, Content: content, Append: appendMode})
	if appendMode {
		existing := m.files[path]
		if existing != "" && !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		content = existing + content
	}
	m.files[path] = content
	return nil
}

// Clear implements FileSystem.
func (m *Memory) Clear(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, WriteOp{Path: path, Clear: true})
	m.files[path] = ""
	return nil
}

// Exists implements FileSystem.
func (m *Memory) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// Writes returns the recorded Write and Clear calls in order.
func (m *Memory) Writes() []WriteOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WriteOp, len(m.writes))
	copy(out, m.writes)
	return out
}
