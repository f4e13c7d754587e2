// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package session

import (
	"fmt"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

const (
	// DefaultMaxHistory is the number of sessions kept in a context.
	DefaultMaxHistory = 10
	// MaxRecentSessions is the number of sessions summarised in prompts.
	MaxRecentSessions = 3
)

// FormattingContext is the state carried across runs.
type FormattingContext struct {
	CustomInstructions  string
	ConversationSummary string
	MaxHistorySize      int

	history []*ProcessingSession
}

// NewContext returns an empty context with the default history size.
func NewContext() *FormattingContext {
	return &FormattingContext{MaxHistorySize: DefaultMaxHistory}
}

// AddSession appends s and drops the oldest sessions beyond MaxHistorySize.
func (c *FormattingContext) AddSession(s *ProcessingSession) {
	c.history = append(c.history, s)
	c.trim()
}

func (c *FormattingContext) trim() {
	limit := c.MaxHistorySize
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	if over := len(c.history) - limit; over > 0 {
		kept := make([]*ProcessingSession, limit)
		copy(kept, c.history[over:])
		c.history = kept
	}
}

// History returns the retained sessions, oldest first.
func (c *FormattingContext) History() []*ProcessingSession {
	return c.history
}

// RecentSessions returns up to n of the latest sessions in chronological order.
func (c *FormattingContext) RecentSessions(n int) []*ProcessingSession {
	if n <= 0 || len(c.history) == 0 {
		return nil
	}
	if n > len(c.history) {
		n = len(c.history)
	}
	return c.history[len(c.history)-n:]
}

// RecentSummaries returns the summary lines of RecentSessions(n).
func (c *FormattingContext) RecentSummaries(n int) []string {
	recent := c.RecentSessions(n)
	out := make([]string, 0, len(recent))
	for _, s := range recent {
		out = append(out, s.Summary())
	}
	return out
}

// TotalWordsProcessed sums the formatted word counts of all retained sessions.
func (c *FormattingContext) TotalWordsProcessed() model.WordCount {
	var total model.WordCount
	for _, s := range c.history {
		total += s.WordsProcessed()
	}
	return total
}

// TotalChunksProcessed sums the chunk counts of all retained sessions.
func (c *FormattingContext) TotalChunksProcessed() int {
	total := 0
	for _, s := range c.history {
		total += s.TotalChunks()
	}
	return total
}

// HasCustomInstructions reports whether custom instructions are set.
func (c *FormattingContext) HasCustomInstructions() bool {
	return c.CustomInstructions != ""
}

// HasConversationSummary reports whether a conversation summary is set.
func (c *FormattingContext) HasConversationSummary() bool {
	return c.ConversationSummary != ""
}

// ClearHistory drops all sessions, keeping instructions and summary.
func (c *FormattingContext) ClearHistory() {
	c.history = nil
}

func (c *FormattingContext) String() string {
	return fmt.Sprintf("Context(%d sessions)", len(c.history))
}
