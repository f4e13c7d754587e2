// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package fsio provides the file access used by the formatting pipeline.
package fsio

import (
	"bufio"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// FileSystem is the file access the pipeline depends on.
type FileSystem interface {
	// Read returns the file contents. ok is false when the file does not exist.
	Read(path string) (content string, ok bool, err error)
	// Write replaces the file, or appends to it when appendMode is set. Appended
	// text is separated from existing content that lacks a trailing newline.
	Write(path, content string, appendMode bool) error
	// Clear truncates the file, creating it if needed.
	Clear(path string) error
	// Exists reports whether path is an existing regular file.
	Exists(path string) bool
}

// OS implements FileSystem on the local disk.
type OS struct{}

var _ FileSystem = OS{}

// Read implements FileSystem.
func (OS) Read(path string) (string, bool, error) {
	info, err := os.Stat(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify(path, err, false)
	}
	if !info.Mode().IsRegular() {
		return "", false, errors.InvalidPath(path, "path exists but is not a file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, classify(path, err, false)
	}
	return string(data), true, nil
}

// Write implements FileSystem.
func (OS) Write(path, content string, appendMode bool) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return classify(path, err, true)
	}
	if !appendMode {
		if err := WriteFileAtomic(path, []byte(content)); err != nil {
			return classify(path, err, true)
		}
		return nil
	}
	if err := appendFile(path, content); err != nil {
		return classify(path, err, true)
	}
	return nil
}

// Clear implements FileSystem.
func (OS) Clear(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return classify(path, err, true)
	}
	if err := os.WriteFile(path, nil, filePerm); err != nil {
		return classify(path, err, true)
	}
	return nil
}

// Exists implements FileSystem.
func (OS) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, filePerm)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil && err != io.EOF {
			return err
		}
		if last[0] != '\n' {
			content = "\n" + content
		}
	}

	if _, err := f.WriteString(content); err != nil {
		return err
	}
	return f.Sync()
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, filePerm)

	bw := bufio.NewWriter(tmp)
	if _, err := bw.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// Best effort: persist the directory entry.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

func classify(path string, err error, write bool) error {
	if stderrors.Is(err, fs.ErrPermission) {
		return errors.PermissionDenied(path, err)
	}
	if write {
		return errors.WriteFailed(path, err)
	}
	return errors.ReadFailed(path, err)
}
