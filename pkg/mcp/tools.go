// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docformat-toolkit/docformat/pkg/chunk"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
	"github.com/docformat-toolkit/docformat/pkg/ingest"
	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/output"
	"github.com/docformat-toolkit/docformat/pkg/runner"
	"github.com/docformat-toolkit/docformat/pkg/session"
)

// In-memory paths used for tool-driven runs.
const (
	toolPromptPath = "prompt.md"
	toolOutputPath = "output.md"
)

func registerFormatTool(s *server.MCPServer, t *tools) {
	tool := mcp.NewTool("format_document",
		mcp.WithDescription("Format a document with the configured formatting model. Long documents are split into chunks and formatted in order with continuity instructions; the reassembled result is returned."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The document text to format"),
		),
		mcp.WithString("instructions",
			mcp.Required(),
			mcp.Description("Formatting instructions applied to every chunk"),
		),
		mcp.WithNumber("word_limit",
			mcp.Description(fmt.Sprintf("Maximum words per chunk (%d-%d, default from config)", model.MinWordLimit, model.MaxWordLimit)),
		),
		mcp.WithString("strategy",
			mcp.Description("Chunking strategy (default from config)"),
			mcp.Enum(chunk.Names()...),
		),
		mcp.WithString("source_format",
			mcp.Description("Format of content: markdown, text or html (default: markdown)"),
			mcp.Enum(string(ingest.FormatMarkdown), string(ingest.FormatText), string(ingest.FormatHTML)),
		),
		mcp.WithBoolean("use_context",
			mcp.Description("Include and update the saved formatting context (default: false)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.mu.Lock()
		defer t.mu.Unlock()

		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}
		instructions, err := req.RequireString("instructions")
		if err != nil {
			return mcp.NewToolResultError("instructions is required"), nil
		}
		limit, strategy, err := t.chunking(req)
		if err != nil {
			return toolError(err), nil
		}

		messagePath := "message.md"
		if f, err := req.RequireString("source_format"); err == nil {
			switch ingest.Format(f) {
			case ingest.FormatHTML:
				messagePath = "message.html"
			case ingest.FormatText:
				messagePath = "message.txt"
			}
		}

		useContext := false
		if b, err := req.RequireBool("use_context"); err == nil {
			useContext = b && t.store != nil
		}

		files := fsio.NewMemory(map[string]string{
			toolPromptPath: instructions,
			messagePath:    content,
		})
		deps := runner.Deps{
			Formatter: t.formatter,
			Files:     files,
			Reporter:  output.NewRecorder(),
			Strategy:  strategy,
			Converter: ingest.NewConverter(),
			Logger:    t.logger,
			Metrics:   t.metrics,
		}
		if useContext {
			deps.Store = t.store
		}

		r := runner.New(runner.Options{
			WordLimit:      limit,
			PromptFile:     toolPromptPath,
			MessageFile:    messagePath,
			OutputFile:     toolOutputPath,
			ContextEnabled: useContext,
		}, deps)

		res := r.Run(ctx)
		if !res.Success {
			return mcp.NewToolResultError(res.Error), nil
		}
		formatted, _, err := files.Read(toolOutputPath)
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatted), nil
	})
}

func registerPlanTool(s *server.MCPServer, t *tools) {
	tool := mcp.NewTool("plan_chunks",
		mcp.WithDescription("Show how a document would be split into chunks without calling the formatter. Returns JSON with per-chunk word counts and excerpts."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The document text to split"),
		),
		mcp.WithNumber("word_limit",
			mcp.Description(fmt.Sprintf("Maximum words per chunk (%d-%d, default from config)", model.MinWordLimit, model.MaxWordLimit)),
		),
		mcp.WithString("strategy",
			mcp.Description("Chunking strategy (default from config)"),
			mcp.Enum(chunk.Names()...),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}
		limit, strategy, err := t.chunking(req)
		if err != nil {
			return toolError(err), nil
		}
		wordLimit, err := model.NewWordLimit(limit)
		if err != nil {
			return toolError(err), nil
		}
		doc, err := model.NewDocument(content, "")
		if err != nil {
			return toolError(err), nil
		}

		data, err := json.MarshalIndent(chunk.NewPlan(strategy, doc, wordLimit), "", "  ")
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// contextSummary is the JSON shape returned by context_summary.
type contextSummary struct {
	Enabled             bool     `json:"enabled"`
	Sessions            int      `json:"sessions"`
	MaxHistory          int      `json:"max_history"`
	TotalWords          int      `json:"total_words"`
	TotalChunks         int      `json:"total_chunks"`
	CustomInstructions  string   `json:"custom_instructions,omitempty"`
	ConversationSummary string   `json:"conversation_summary,omitempty"`
	Recent              []string `json:"recent_sessions"`
}

func registerContextTool(s *server.MCPServer, t *tools) {
	tool := mcp.NewTool("context_summary",
		mcp.WithDescription("Report the saved formatting context: session history size, totals, custom instructions, conversation summary and the most recent sessions."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.mu.Lock()
		defer t.mu.Unlock()

		summary := contextSummary{Recent: []string{}}
		if t.store != nil {
			fc, err := t.store.Load(ctx)
			if err != nil {
				t.logger.Warn("could not load context, reporting it empty", "error", err)
				fc = session.NewContext()
			}
			summary = summarize(fc)
			summary.Enabled = true
		}

		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func summarize(fc *session.FormattingContext) contextSummary {
	recent := fc.RecentSummaries(session.MaxRecentSessions)
	if recent == nil {
		recent = []string{}
	}
	return contextSummary{
		Sessions:            len(fc.History()),
		MaxHistory:          fc.MaxHistorySize,
		TotalWords:          int(fc.TotalWordsProcessed()),
		TotalChunks:         fc.TotalChunksProcessed(),
		CustomInstructions:  fc.CustomInstructions,
		ConversationSummary: fc.ConversationSummary,
		Recent:              recent,
	}
}

// chunking resolves the word limit and strategy arguments against the
// configured defaults.
func (t *tools) chunking(req mcp.CallToolRequest) (int, chunk.Strategy, error) {
	limit := t.cfg.Chunking.WordLimit
	if v, err := req.RequireFloat("word_limit"); err == nil {
		limit = int(v)
	}
	name := t.cfg.Chunking.Strategy
	if v, err := req.RequireString("strategy"); err == nil && v != "" {
		name = v
	}
	strategy, err := chunk.New(name)
	if err != nil {
		return 0, nil, err
	}
	return limit, strategy, nil
}
