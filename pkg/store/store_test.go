// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/session"
	"github.com/docformat-toolkit/docformat/pkg/store"
)

func sampleContext(t *testing.T, sessions int) *session.FormattingContext {
	t.Helper()
	fc := session.NewContext()
	fc.CustomInstructions = "Use British spelling"
	fc.ConversationSummary = "Previously normalised headings"

	for i := 0; i < sessions; i++ {
		doc, err := model.NewDocument(strings.Repeat("word ", 120+i), "doc.md")
		if err != nil {
			t.Fatal(err)
		}
		s := session.New(doc, "Fix.")
		for c := 1; c <= 2; c++ {
			pos, _ := model.NewChunkPosition(c, 2)
			s.AddChunk(session.NewProcessedChunk("formatted words here", pos))
		}
		s.Complete()
		fc.AddSession(s)
	}
	return fc
}

func openStores(t *testing.T) map[string]store.ContextStore {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := store.Open(store.Config{Backend: store.BackendSQLite, Path: filepath.Join(dir, "context.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	jsonStore, err := store.Open(store.Config{Backend: store.BackendJSON, Path: filepath.Join(dir, "context.json")})
	if err != nil {
		t.Fatalf("open json: %v", err)
	}

	return map[string]store.ContextStore{"json": jsonStore, "sqlite": sqlite}
}

func TestLoadEmptyStore(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			fc, err := st.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(fc.History()) != 0 || fc.HasCustomInstructions() {
				t.Errorf("expected empty context, got %s", fc)
			}
			if fc.MaxHistorySize != session.DefaultMaxHistory {
				t.Errorf("MaxHistorySize = %d", fc.MaxHistorySize)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleContext(t, 3)

			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if got.CustomInstructions != want.CustomInstructions || got.ConversationSummary != want.ConversationSummary {
				t.Error("instructions or summary not persisted")
			}
			if len(got.History()) != 3 {
				t.Fatalf("len(History) = %d, want 3", len(got.History()))
			}
			for i, s := range got.History() {
				w := want.History()[i]
				if s.ID != w.ID || s.Summary() != w.Summary() || s.TotalChunks() != 2 || s.WordsProcessed() != 6 {
					t.Errorf("session %d differs: %s %q", i, s.ID, s.Summary())
				}
				if !s.IsCompleted() {
					t.Errorf("session %d lost its completion time", i)
				}
			}
			if got.TotalWordsProcessed() != want.TotalWordsProcessed() {
				t.Errorf("TotalWordsProcessed = %d, want %d", got.TotalWordsProcessed(), want.TotalWordsProcessed())
			}
		})
	}
}

func TestSaveReplacesHistory(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Save(ctx, sampleContext(t, 4)); err != nil {
				t.Fatal(err)
			}
			if err := st.Save(ctx, sampleContext(t, 1)); err != nil {
				t.Fatal(err)
			}
			got, err := st.Load(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.History()) != 1 {
				t.Errorf("len(History) = %d, want 1", len(got.History()))
			}
		})
	}
}

func TestJSONStoreCorruptFileYieldsEmptyContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := store.NewJSONStore(path, 0, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load(corrupt) error = %v", err)
	}
	if len(fc.History()) != 0 || fc.HasCustomInstructions() {
		t.Error("expected a fresh context")
	}
}

func TestJSONStoreLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "context.json")
	st := store.NewJSONStore(path, 0, nil)
	if err := st.Save(context.Background(), sampleContext(t, 1)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"session_history", "custom_instructions", "conversation_summary", "updated_at"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("persisted context missing %q", key)
		}
	}
	entry := raw["session_history"].([]any)[0].(map[string]any)
	for _, key := range []string{"session_id", "created_at", "completed_at", "document", "total_chunks", "summary"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("session entry missing %q", key)
		}
	}
}

func TestLoadHonoursMaxHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	if err := store.NewJSONStore(path, 0, nil).Save(context.Background(), sampleContext(t, 5)); err != nil {
		t.Fatal(err)
	}
	fc, err := store.NewJSONStore(path, 2, nil).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.History()) != 2 {
		t.Errorf("len(History) = %d, want 2", len(fc.History()))
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := store.Open(store.Config{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSQLiteInMemory(t *testing.T) {
	st := store.NewSQLiteStore(":memory:", 0, nil)
	defer st.Close()

	if err := st.Save(context.Background(), sampleContext(t, 2)); err != nil {
		t.Fatal(err)
	}
	fc, err := st.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.History()) != 2 {
		t.Errorf("len(History) = %d, want 2", len(fc.History()))
	}
}

func TestSQLiteCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.db")
	garbage := []byte("this is not a sqlite database, just some bytes on disk")
	if err := os.WriteFile(path, garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(store.Config{Backend: store.BackendSQLite, Path: path})
	if err != nil {
		t.Fatalf("Open with corrupt file: %v", err)
	}
	defer st.Close()

	if _, err := st.Load(context.Background()); !errors.IsKind(err, errors.KindContextLoad) {
		t.Fatalf("Load error = %v, want context_load", err)
	}

	if err := st.Save(context.Background(), sampleContext(t, 1)); err != nil {
		t.Fatalf("Save after corrupt load: %v", err)
	}
	fc, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if len(fc.History()) != 1 {
		t.Errorf("len(History) = %d, want 1", len(fc.History()))
	}

	backup, err := os.ReadFile(path + store.CorruptSuffix)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(backup) != string(garbage) {
		t.Errorf("backup = %q, want original bytes", backup)
	}
}
