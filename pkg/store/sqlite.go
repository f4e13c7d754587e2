// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/session"
)

// DefaultSQLitePath is the default location of the SQLite context database.
const DefaultSQLitePath = "data/context.db"

// CorruptSuffix is appended to an unreadable database file when it is
// replaced.
const CorruptSuffix = ".corrupt"

const schema = `
CREATE TABLE IF NOT EXISTS context_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS session_history (
	position        INTEGER PRIMARY KEY,
	session_id      TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	completed_at    TEXT,
	word_count      INTEGER NOT NULL,
	source_file     TEXT NOT NULL DEFAULT '',
	total_chunks    INTEGER NOT NULL,
	words_processed INTEGER NOT NULL,
	summary         TEXT NOT NULL
);`

const (
	metaCustomInstructions  = "custom_instructions"
	metaConversationSummary = "conversation_summary"
	metaUpdatedAt           = "updated_at"
)

// SQLiteStore keeps the context in a SQLite database.
//
// A database that cannot be opened does not fail construction: Load reports
// the error, and the next Save moves the unreadable file aside and starts a
// new database in its place.
type SQLiteStore struct {
	db         *sql.DB
	openErr    error
	path       string
	maxHistory int
	logger     *slog.Logger
	now        func() time.Time
}

// NewSQLiteStore opens (and migrates) the database at path.
// Pass ":memory:" for an in-memory database.
func NewSQLiteStore(path string, maxHistory int, logger *slog.Logger) *SQLiteStore {
	if path == "" {
		path = DefaultSQLitePath
	}
	s := &SQLiteStore{path: path, maxHistory: maxHistory, logger: orDiscard(logger), now: time.Now}
	s.db, s.openErr = openSQLite(path)
	if s.openErr != nil {
		s.logger.Warn("context database unavailable", "path", path, "error", s.openErr)
	}
	return s
}

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// reopen moves an unreadable database file to path+".corrupt" and creates
// a fresh database at path.
func (s *SQLiteStore) reopen() error {
	if s.openErr == nil {
		return nil
	}
	if s.path == ":memory:" {
		return s.openErr
	}

	backup := s.path + CorruptSuffix
	if err := os.Rename(s.path, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("moving unreadable database aside: %w", err)
	}
	for _, sidecar := range []string{s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", sidecar, err)
		}
	}

	db, err := openSQLite(s.path)
	if err != nil {
		return err
	}
	s.db, s.openErr = db, nil
	s.logger.Warn("replaced unreadable context database", "path", s.path, "backup", backup)
	return nil
}

// Load implements ContextStore.
func (s *SQLiteStore) Load(ctx context.Context) (*session.FormattingContext, error) {
	if s.openErr != nil {
		return nil, errors.ContextLoadFailed(s.openErr)
	}

	var snap session.Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM context_meta`)
	if err != nil {
		return nil, errors.ContextLoadFailed(err)
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return nil, errors.ContextLoadFailed(err)
		}
		switch key {
		case metaCustomInstructions:
			snap.CustomInstructions = value
		case metaConversationSummary:
			snap.ConversationSummary = value
		case metaUpdatedAt:
			snap.UpdatedAt, _ = time.Parse(time.RFC3339Nano, value)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.ContextLoadFailed(err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT session_id, created_at, completed_at, word_count, source_file,
		       total_chunks, words_processed, summary
		FROM session_history ORDER BY position`)
	if err != nil {
		return nil, errors.ContextLoadFailed(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r         session.Record
			created   string
			completed sql.NullString
		)
		if err := rows.Scan(&r.SessionID, &created, &completed, &r.Document.WordCount,
			&r.Document.SourceFile, &r.TotalChunks, &r.WordsProcessed, &r.Summary); err != nil {
			return nil, errors.ContextLoadFailed(err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			s.logger.Warn("skipping session with bad timestamp", "session_id", r.SessionID, "error", err)
			continue
		}
		if completed.Valid {
			if t, err := time.Parse(time.RFC3339Nano, completed.String); err == nil {
				r.CompletedAt = &t
			}
		}
		snap.SessionHistory = append(snap.SessionHistory, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ContextLoadFailed(err)
	}

	return restore(snap, s.maxHistory, s.logger), nil
}

// Save implements ContextStore. History is replaced in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, fc *session.FormattingContext) error {
	if err := s.reopen(); err != nil {
		return errors.ContextSaveFailed(err)
	}
	snap := fc.Snapshot(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.ContextSaveFailed(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_history`); err != nil {
		return errors.ContextSaveFailed(err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_history (position, session_id, created_at, completed_at, word_count,
			source_file, total_chunks, words_processed, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.ContextSaveFailed(err)
	}
	defer stmt.Close()

	for i, r := range snap.SessionHistory {
		var completed any
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx, i, r.SessionID, r.CreatedAt.Format(time.RFC3339Nano), completed,
			r.Document.WordCount, r.Document.SourceFile, r.TotalChunks, r.WordsProcessed, r.Summary); err != nil {
			return errors.ContextSaveFailed(err)
		}
	}

	meta := map[string]string{
		metaCustomInstructions:  snap.CustomInstructions,
		metaConversationSummary: snap.ConversationSummary,
		metaUpdatedAt:           snap.UpdatedAt.Format(time.RFC3339Nano),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO context_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			return errors.ContextSaveFailed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.ContextSaveFailed(err)
	}
	return nil
}

// Close implements ContextStore.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
