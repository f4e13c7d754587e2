// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package session tracks document runs and the context carried between them.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

// ProcessedChunk is the formatted output of one chunk.
type ProcessedChunk struct {
	Content   string
	Position  model.ChunkPosition
	WordCount model.WordCount
}

// NewProcessedChunk records formatted content for pos.
func NewProcessedChunk(content string, pos model.ChunkPosition) ProcessedChunk {
	return ProcessedChunk{
		Content:   content,
		Position:  pos,
		WordCount: model.CountWords(content),
	}
}

// ProcessingSession is the record of one document run.
//
// Chunks are kept in the order AddChunk is called. A session is owned by a
// single run and is not safe for concurrent use.
type ProcessingSession struct {
	ID               model.SessionID
	CreatedAt        time.Time
	CompletedAt      *time.Time
	FormattingPrompt string

	document *model.Document
	chunks   []ProcessedChunk

	// archived is set for sessions rebuilt from persisted history, which
	// no longer carry their document or chunk contents.
	archived *Record
}

// New starts a session for doc.
func New(doc *model.Document, formattingPrompt string) *ProcessingSession {
	return &ProcessingSession{
		ID:               model.SessionID(uuid.Must(uuid.NewV7()).String()),
		CreatedAt:        time.Now(),
		FormattingPrompt: formattingPrompt,
		document:         doc,
	}
}

// Document returns the processed document. It is nil for archived sessions.
func (s *ProcessingSession) Document() *model.Document {
	return s.document
}

// AddChunk appends c.
func (s *ProcessingSession) AddChunk(c ProcessedChunk) {
	s.chunks = append(s.chunks, c)
}

// Chunks returns the processed chunks in processing order.
func (s *ProcessingSession) Chunks() []ProcessedChunk {
	return s.chunks
}

// Complete stamps the completion time. A second call overwrites the first.
func (s *ProcessingSession) Complete() {
	now := time.Now()
	s.CompletedAt = &now
}

// IsCompleted reports whether Complete has been called.
func (s *ProcessingSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// TotalChunks returns the number of processed chunks.
func (s *ProcessingSession) TotalChunks() int {
	if s.archived != nil {
		return s.archived.TotalChunks
	}
	return len(s.chunks)
}

// IsChunked reports whether the document was processed in more than one chunk.
func (s *ProcessingSession) IsChunked() bool {
	return s.TotalChunks() > 1
}

// WordsProcessed sums the word counts of the formatted chunks.
func (s *ProcessingSession) WordsProcessed() model.WordCount {
	if s.archived != nil {
		return model.WordCount(s.archived.WordsProcessed)
	}
	var total model.WordCount
	for _, c := range s.chunks {
		total += c.WordCount
	}
	return total
}

// DocumentWords returns the input document's word count.
func (s *ProcessingSession) DocumentWords() model.WordCount {
	if s.archived != nil {
		return model.WordCount(s.archived.Document.WordCount)
	}
	if s.document == nil {
		return 0
	}
	return s.document.WordCount()
}

// Source returns the document's source file, or "".
func (s *ProcessingSession) Source() string {
	if s.archived != nil {
		return s.archived.Document.SourceFile
	}
	if s.document == nil {
		return ""
	}
	return s.document.Source()
}

// Duration returns how long the run took, or zero if it has not completed.
func (s *ProcessingSession) Duration() time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(s.CreatedAt)
}

// Summary returns a one-line description used in context prompts.
func (s *ProcessingSession) Summary() string {
	source := s.Source()
	if source == "" {
		source = "unknown"
	}
	summary := fmt.Sprintf("%s: %d words", source, s.DocumentWords())
	if s.IsChunked() {
		summary += fmt.Sprintf(" in %d chunks", s.TotalChunks())
	}
	return summary
}

func (s *ProcessingSession) String() string {
	status := "in progress"
	if s.IsCompleted() {
		status = "completed"
	}
	return fmt.Sprintf("Session %s (%s)", s.ID.Short(), status)
}
