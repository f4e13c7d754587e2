// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/fsio"
)

const entrySuffix = ".json"

// DiskCache keeps one JSON file per entry under a directory.
type DiskCache struct {
	path string
	now  func() time.Time
}

// NewDiskCache creates a disk cache rooted at path.
func NewDiskCache(path string) *DiskCache {
	return &DiskCache{
		path: path,
		now:  time.Now,
	}
}

// Get retrieves a value from disk cache. Expired entries are removed.
func (d *DiskCache) Get(ctx context.Context, key string) ([]byte, error) {
	file := d.file(key)
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		_ = os.Remove(file)
		return nil, ErrCacheMiss
	}
	if entry.Expired(d.now()) {
		_ = os.Remove(file)
		return nil, ErrCacheMiss
	}
	return entry.Value, nil
}

// Set stores a value in disk cache.
func (d *DiskCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.Marshal(Entry{Key: key, Value: value, ExpiresAt: expiry(d.now(), ttl)})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return fsio.WriteFileAtomic(d.file(key), data)
}

// Delete removes a value from disk cache.
func (d *DiskCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(d.file(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries from disk cache.
func (d *DiskCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(d.path, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}

// Path returns the cache directory.
func (d *DiskCache) Path() string { return d.path }

// file maps key to a filesystem-safe name.
func (d *DiskCache) file(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.path, hex.EncodeToString(sum[:])+entrySuffix)
}
