// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package fsio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
)

func TestOSReadMissing(t *testing.T) {
	content, ok, err := fsio.OS{}.Read(filepath.Join(t.TempDir(), "missing.md"))
	if err != nil || ok || content != "" {
		t.Errorf("Read(missing) = %q, %v, %v; want absent without error", content, ok, err)
	}
}

func TestOSReadDirectory(t *testing.T) {
	_, _, err := fsio.OS{}.Read(t.TempDir())
	if !errors.IsKind(err, errors.KindInvalidPath) {
		t.Errorf("Read(dir) error = %v, want invalid_path", err)
	}
}

func TestOSWriteCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.md")
	if err := (fsio.OS{}).Write(path, "hello", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, ok, err := fsio.OS{}.Read(path)
	if err != nil || !ok || got != "hello" {
		t.Errorf("Read = %q, %v, %v", got, ok, err)
	}
}

func TestOSAppendInsertsNewline(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		appended string
		want     string
	}{
		{"no trailing newline", "part one", "part two", "part one\npart two"},
		{"trailing newline", "part one\n", "part two", "part one\npart two"},
		{"empty file", "", "part two", "part two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.md")
			if err := os.WriteFile(path, []byte(tt.existing), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := (fsio.OS{}).Write(path, tt.appended, true); err != nil {
				t.Fatalf("Write(append): %v", err)
			}
			data, _ := os.ReadFile(path)
			if string(data) != tt.want {
				t.Errorf("content = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestOSAppendToMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.md")
	if err := (fsio.OS{}).Write(path, "first", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("content = %q", data)
	}
}

func TestOSClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "out.md")
	fs := fsio.OS{}
	if err := fs.Clear(path); err != nil {
		t.Fatalf("Clear(missing): %v", err)
	}
	if !fs.Exists(path) {
		t.Fatal("Clear should create the file")
	}
	if err := fs.Write(path, "data", false); err != nil {
		t.Fatal(err)
	}
	if err := fs.Clear(path); err != nil {
		t.Fatal(err)
	}
	got, ok, _ := fs.Read(path)
	if !ok || got != "" {
		t.Errorf("after Clear: %q, %v", got, ok)
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "context.json")
	for i := 0; i < 3; i++ {
		if err := fsio.WriteFileAtomic(path, []byte(`{"n":1}`)); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "context.json" {
		t.Errorf("unexpected directory entries: %v", entries)
	}
}

func TestMemory(t *testing.T) {
	m := fsio.NewMemory(map[string]string{"prompt.md": "Fix."})

	if got, ok, _ := m.Read("prompt.md"); !ok || got != "Fix." {
		t.Errorf("Read(seeded) = %q, %v", got, ok)
	}
	if _, ok, _ := m.Read("absent.md"); ok {
		t.Error("Read(absent) reported ok")
	}

	_ = m.Clear("out.md")
	_ = m.Write("out.md", "one", false)
	_ = m.Write("out.md", "two", true)

	if got, _, _ := m.Read("out.md"); got != "one\ntwo" {
		t.Errorf("out.md = %q", got)
	}
	writes := m.Writes()
	if len(writes) != 3 || !writes[0].Clear || writes[1].Append || !writes[2].Append {
		t.Errorf("unexpected write log: %+v", writes)
	}
}
