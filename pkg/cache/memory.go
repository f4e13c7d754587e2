// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryCache created without WithMaxEntries.
const DefaultMaxEntries = 512

// MemoryCache is an in-process LRU cache. Expired entries are dropped when
// read; the least recently used entry is evicted once the cache is full.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	lru        *list.List
	maxEntries int
	now        func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries sets the entry limit. Values below one keep the default.
func WithMaxEntries(n int) MemoryOption {
	return func(m *MemoryCache) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryCache) {
		m.now = now
	}
}

// NewMemoryCache creates a new memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	m := &MemoryCache{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache. A hit marks the entry as recently used.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	entry := elem.Value.(*Entry)
	if entry.Expired(m.now()) {
		m.remove(elem)
		return nil, ErrCacheMiss
	}
	m.lru.MoveToFront(elem)
	return entry.Value, nil
}

// Set implements Cache.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &Entry{Key: key, Value: value, ExpiresAt: expiry(m.now(), ttl)}
	if elem, ok := m.items[key]; ok {
		elem.Value = entry
		m.lru.MoveToFront(elem)
		return nil
	}

	m.items[key] = m.lru.PushFront(entry)
	for m.lru.Len() > m.maxEntries {
		m.remove(m.lru.Back())
	}
	return nil
}

// Delete implements Cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Clear implements Cache.
func (m *MemoryCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*list.Element)
	m.lru.Init()
	return nil
}

// Len returns the number of stored entries, including expired entries not
// yet read.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *MemoryCache) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*Entry).Key)
}
