// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package session

import (
	"time"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

// Record is the persisted form of a session.
type Record struct {
	SessionID      string         `json:"session_id"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	Document       DocumentRecord `json:"document"`
	TotalChunks    int            `json:"total_chunks"`
	WordsProcessed int            `json:"words_processed"`
	Summary        string         `json:"summary"`
}

// DocumentRecord is the persisted description of a session's input.
type DocumentRecord struct {
	WordCount  int    `json:"word_count"`
	SourceFile string `json:"source_file,omitempty"`
}

// Snapshot is the persisted form of a FormattingContext.
type Snapshot struct {
	SessionHistory      []Record  `json:"session_history"`
	CustomInstructions  string    `json:"custom_instructions"`
	ConversationSummary string    `json:"conversation_summary"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Record projects s into its persisted form.
func (s *ProcessingSession) Record() Record {
	return Record{
		SessionID:   string(s.ID),
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
		Document: DocumentRecord{
			WordCount:  int(s.DocumentWords()),
			SourceFile: s.Source(),
		},
		TotalChunks:    s.TotalChunks(),
		WordsProcessed: int(s.WordsProcessed()),
		Summary:        s.Summary(),
	}
}

// Restore rebuilds an archived session from r.
func Restore(r Record) (*ProcessingSession, error) {
	id, err := model.NewSessionID(r.SessionID)
	if err != nil {
		return nil, err
	}
	if _, err := model.NewWordCount(r.Document.WordCount); err != nil {
		return nil, err
	}
	rec := r
	return &ProcessingSession{
		ID:          id,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		archived:    &rec,
	}, nil
}

// Snapshot captures c for persistence, stamped with now.
func (c *FormattingContext) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		SessionHistory:      make([]Record, 0, len(c.history)),
		CustomInstructions:  c.CustomInstructions,
		ConversationSummary: c.ConversationSummary,
		UpdatedAt:           now,
	}
	for _, s := range c.history {
		snap.SessionHistory = append(snap.SessionHistory, s.Record())
	}
	return snap
}

// FromSnapshot rebuilds a context. Records that fail validation are skipped
// and returned as the second value so callers can log them.
func FromSnapshot(snap Snapshot, maxHistory int) (*FormattingContext, []error) {
	c := NewContext()
	if maxHistory > 0 {
		c.MaxHistorySize = maxHistory
	}
	c.CustomInstructions = snap.CustomInstructions
	c.ConversationSummary = snap.ConversationSummary

	var skipped []error
	for _, r := range snap.SessionHistory {
		s, err := Restore(r)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		c.AddSession(s)
	}
	return c, skipped
}
