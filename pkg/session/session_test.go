// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package session_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/session"
)

func newSession(t *testing.T, source string, words int) *session.ProcessingSession {
	t.Helper()
	doc, err := model.NewDocument(strings.TrimSpace(strings.Repeat("word ", words)), source)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return session.New(doc, "Fix typos.")
}

func mustPos(t *testing.T, current, total int) model.ChunkPosition {
	t.Helper()
	p, err := model.NewChunkPosition(current, total)
	if err != nil {
		t.Fatalf("NewChunkPosition: %v", err)
	}
	return p
}

func TestNewSession(t *testing.T) {
	s := newSession(t, "a.md", 5)

	if len(s.ID) < model.MinSessionIDLength {
		t.Errorf("session id %q too short", s.ID)
	}
	if s.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if s.IsCompleted() {
		t.Error("new session should not be completed")
	}
	if other := newSession(t, "a.md", 5); other.ID == s.ID {
		t.Error("session ids must be unique")
	}
}

func TestAddChunkKeepsCallOrder(t *testing.T) {
	s := newSession(t, "a.md", 300)
	s.AddChunk(session.NewProcessedChunk("second chunk here", mustPos(t, 2, 2)))
	s.AddChunk(session.NewProcessedChunk("first", mustPos(t, 1, 2)))

	chunks := s.Chunks()
	if len(chunks) != 2 || chunks[0].Position.Current != 2 {
		t.Error("chunks were reordered")
	}
	if s.WordsProcessed() != 4 {
		t.Errorf("WordsProcessed = %d, want 4", s.WordsProcessed())
	}
	if !s.IsChunked() || s.TotalChunks() != 2 {
		t.Error("expected chunked session with 2 chunks")
	}
}

func TestCompleteOverwrites(t *testing.T) {
	s := newSession(t, "a.md", 5)
	s.Complete()
	first := *s.CompletedAt
	time.Sleep(2 * time.Millisecond)
	s.Complete()

	if !s.CompletedAt.After(first) {
		t.Error("second Complete should overwrite the timestamp")
	}
	if s.Duration() <= 0 {
		t.Error("Duration should be positive once completed")
	}
}

func TestSummary(t *testing.T) {
	s := newSession(t, "notes.md", 12)
	if got := s.Summary(); got != "notes.md: 12 words" {
		t.Errorf("Summary() = %q", got)
	}

	s.AddChunk(session.NewProcessedChunk("a", mustPos(t, 1, 2)))
	s.AddChunk(session.NewProcessedChunk("b", mustPos(t, 2, 2)))
	if got := s.Summary(); got != "notes.md: 12 words in 2 chunks" {
		t.Errorf("Summary() = %q", got)
	}

	anon := newSession(t, "", 3)
	if got := anon.Summary(); got != "unknown: 3 words" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestContextFIFOTrim(t *testing.T) {
	c := session.NewContext()
	c.MaxHistorySize = 3

	var added []*session.ProcessingSession
	for i := 0; i < 5; i++ {
		s := newSession(t, fmt.Sprintf("doc%d.md", i), 10)
		added = append(added, s)
		c.AddSession(s)
	}

	history := c.History()
	if len(history) != 3 {
		t.Fatalf("len(History) = %d, want 3", len(history))
	}
	for i, s := range history {
		if s != added[i+2] {
			t.Errorf("history[%d] = %s, want %s", i, s.Source(), added[i+2].Source())
		}
	}
}

func TestContextDefaultMaxHistory(t *testing.T) {
	c := session.NewContext()
	for i := 0; i < 15; i++ {
		c.AddSession(newSession(t, "x.md", 1))
	}
	if len(c.History()) != session.DefaultMaxHistory {
		t.Errorf("len(History) = %d, want %d", len(c.History()), session.DefaultMaxHistory)
	}
}

func TestRecentSessions(t *testing.T) {
	c := session.NewContext()
	if got := c.RecentSessions(3); len(got) != 0 {
		t.Errorf("empty context returned %d sessions", len(got))
	}

	for i := 0; i < 4; i++ {
		c.AddSession(newSession(t, fmt.Sprintf("d%d.md", i), i+1))
	}

	recent := c.RecentSessions(3)
	if len(recent) != 3 || recent[0].Source() != "d1.md" || recent[2].Source() != "d3.md" {
		t.Errorf("RecentSessions(3) returned wrong window")
	}
	if got := c.RecentSessions(10); len(got) != 4 {
		t.Errorf("RecentSessions(10) = %d sessions, want 4", len(got))
	}

	summaries := c.RecentSummaries(2)
	if len(summaries) != 2 || summaries[1] != "d3.md: 4 words" {
		t.Errorf("RecentSummaries(2) = %q", summaries)
	}
}

func TestTotalWordsProcessedUsesFormattedChunks(t *testing.T) {
	c := session.NewContext()

	s := newSession(t, "a.md", 100)
	s.AddChunk(session.NewProcessedChunk("only three words", mustPos(t, 1, 1)))
	c.AddSession(s)

	s2 := newSession(t, "b.md", 50)
	s2.AddChunk(session.NewProcessedChunk("two words", mustPos(t, 1, 1)))
	c.AddSession(s2)

	if got := c.TotalWordsProcessed(); got != 5 {
		t.Errorf("TotalWordsProcessed = %d, want 5", got)
	}
	if got := c.TotalChunksProcessed(); got != 2 {
		t.Errorf("TotalChunksProcessed = %d, want 2", got)
	}

	c.ClearHistory()
	if len(c.History()) != 0 || c.TotalWordsProcessed() != 0 {
		t.Error("ClearHistory did not clear")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := session.NewContext()
	c.CustomInstructions = "British spelling"
	c.ConversationSummary = "headings fixed"

	s := newSession(t, "a.md", 250)
	s.AddChunk(session.NewProcessedChunk("one two", mustPos(t, 1, 2)))
	s.AddChunk(session.NewProcessedChunk("three", mustPos(t, 2, 2)))
	s.Complete()
	c.AddSession(s)

	now := time.Now()
	snap := c.Snapshot(now)
	if !snap.UpdatedAt.Equal(now) || len(snap.SessionHistory) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	rec := snap.SessionHistory[0]
	if rec.TotalChunks != 2 || rec.WordsProcessed != 3 || rec.Document.WordCount != 250 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Summary != "a.md: 250 words in 2 chunks" {
		t.Errorf("Summary = %q", rec.Summary)
	}

	restored, skipped := session.FromSnapshot(snap, 0)
	if len(skipped) != 0 {
		t.Fatalf("skipped records: %v", skipped)
	}
	if restored.CustomInstructions != c.CustomInstructions || restored.ConversationSummary != c.ConversationSummary {
		t.Error("instructions or summary lost")
	}
	got := restored.History()[0]
	if got.ID != s.ID || got.Summary() != s.Summary() || got.WordsProcessed() != 3 || got.Document() != nil {
		t.Errorf("restored session differs: %s %q", got.ID, got.Summary())
	}
}

func TestFromSnapshotSkipsInvalidRecords(t *testing.T) {
	snap := session.Snapshot{SessionHistory: []session.Record{
		{SessionID: "short"},
		{SessionID: "0190a3b4-7c1d-7e2f-8000-000000000001", Document: session.DocumentRecord{WordCount: 5}},
	}}

	c, skipped := session.FromSnapshot(snap, 10)
	if len(skipped) != 1 {
		t.Errorf("len(skipped) = %d, want 1", len(skipped))
	}
	if len(c.History()) != 1 {
		t.Errorf("len(History) = %d, want 1", len(c.History()))
	}
	if c.History()[0].Summary() != "unknown: 5 words" {
		t.Errorf("Summary = %q", c.History()[0].Summary())
	}
}
