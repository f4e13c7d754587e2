// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/cache"
)

func caches(t *testing.T) map[string]cache.Cache {
	t.Helper()
	return map[string]cache.Cache{
		"memory": cache.NewMemoryCache(),
		"disk":   cache.NewDiskCache(t.TempDir()),
	}
}

func TestCacheSetGetDelete(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := c.Get(ctx, "k"); err != cache.ErrCacheMiss {
				t.Fatalf("Get(absent) error = %v, want miss", err)
			}
			if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
				t.Fatal(err)
			}
			got, err := c.Get(ctx, "k")
			if err != nil || string(got) != "value" {
				t.Fatalf("Get = %q, %v", got, err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatal(err)
			}
			if _, err := c.Get(ctx, "k"); err != cache.ErrCacheMiss {
				t.Errorf("Get after Delete error = %v", err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete(absent) error = %v", err)
			}
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := c.Set(ctx, "short", []byte("v"), time.Nanosecond); err != nil {
				t.Fatal(err)
			}
			time.Sleep(2 * time.Millisecond)
			if _, err := c.Get(ctx, "short"); err != cache.ErrCacheMiss {
				t.Errorf("expired Get error = %v, want miss", err)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{"a", "b", "c"} {
				if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
					t.Fatal(err)
				}
			}
			if err := c.Clear(ctx); err != nil {
				t.Fatal(err)
			}
			for _, k := range []string{"a", "b", "c"} {
				if _, err := c.Get(ctx, k); err != cache.ErrCacheMiss {
					t.Errorf("Get(%q) after Clear error = %v", k, err)
				}
			}
		})
	}
}

func TestDiskCacheClearMissingDir(t *testing.T) {
	c := cache.NewDiskCache(t.TempDir() + "/never-created")
	if err := c.Clear(context.Background()); err != nil {
		t.Errorf("Clear(missing dir) = %v", err)
	}
}

func TestDiskCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c := cache.NewDiskCache(dir)
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected one entry file, got %d", len(entries))
	}
	if err := os.WriteFile(dir+"/"+entries[0].Name(), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, "k"); err != cache.ErrCacheMiss {
		t.Errorf("Get(corrupt) error = %v, want miss", err)
	}
}

func TestKeyGenerator(t *testing.T) {
	kg := cache.NewKeyGenerator()

	a := kg.ForPrompt("openai", "gpt-4", "prompt")
	if !strings.HasPrefix(a, "docformat:") {
		t.Errorf("key %q missing prefix", a)
	}
	if a != kg.ForPrompt("openai", "gpt-4", "prompt") {
		t.Error("keys are not deterministic")
	}
	if a == kg.ForPrompt("openai", "gpt-4o", "prompt") {
		t.Error("model does not affect the key")
	}
	if kg.Generate("ab", "c") == kg.Generate("a", "bc") {
		t.Error("input boundaries collide")
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(cache.WithMaxEntries(2))

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("Get(a) = %v", err)
	}
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, err := c.Get(ctx, "b"); err != cache.ErrCacheMiss {
		t.Errorf("Get(b) error = %v, want b evicted", err)
	}
	for _, k := range []string{"a", "c"} {
		if _, err := c.Get(ctx, k); err != nil {
			t.Errorf("Get(%q) error = %v, want hit", k, err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestMemoryCacheDropsExpiredOnRead(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewMemoryCache(cache.WithClock(func() time.Time { return now }))

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	_ = c.Set(ctx, "k", []byte("v2"), time.Minute)
	if c.Len() != 1 {
		t.Fatalf("Len after overwrite = %d, want 1", c.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, err := c.Get(ctx, "k"); err != cache.ErrCacheMiss {
		t.Errorf("Get(expired) error = %v, want miss", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len after expired read = %d, want 0", c.Len())
	}
}
