// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package mcp exposes docformat over the Model Context Protocol.
//
// Tools:
//   - format_document: format text with the configured formatter
//   - plan_chunks: show how text would be split, without formatting
//   - context_summary: report the saved formatting context
package mcp

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docformat-toolkit/docformat/pkg/ai"
	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/store"
)

// ServerName is reported to clients during initialization.
const ServerName = "docformat"

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Config  *config.Config
	Version string
	// Formatter overrides the formatter built from Config.Formatter.
	Formatter ai.Formatter
	// Store overrides the context store opened from Config.Context.
	Store   store.ContextStore
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Server is an MCP server with the docformat tools registered.
type Server struct {
	*server.MCPServer
	tools     *tools
	ownsStore bool
}

// tools holds the state shared by the tool handlers.
type tools struct {
	// mu serializes tool calls; handlers are dispatched concurrently and
	// runs share the formatter and the context store.
	mu        sync.Mutex
	cfg       *config.Config
	formatter ai.Formatter
	store     store.ContextStore
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewServer creates a configured MCP server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.Discard()
	}
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	t := &tools{
		cfg:       cfg.Config,
		formatter: cfg.Formatter,
		store:     cfg.Store,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}

	if t.formatter == nil {
		f, err := ai.NewFactory(
			ai.WithFactoryLogger(cfg.Logger),
			ai.WithFactoryMetrics(cfg.Metrics),
		).Create(cfg.Config.Formatter)
		if err != nil {
			return nil, err
		}
		t.formatter = f
	}

	ownsStore := false
	if t.store == nil && cfg.Config.Context.Enabled {
		st, err := store.Open(store.Config{
			Backend:    cfg.Config.Context.Backend,
			Path:       cfg.Config.Context.Path,
			MaxHistory: cfg.Config.Context.MaxHistory,
			Logger:     cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		t.store = st
		ownsStore = true
	}

	s := server.NewMCPServer(
		ServerName,
		ver,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	registerFormatTool(s, t)
	registerPlanTool(s, t)
	registerContextTool(s, t)

	return &Server{MCPServer: s, tools: t, ownsStore: ownsStore}, nil
}

// ServeStdio serves MCP over in and out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.MCPServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.tools.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// Close releases the context store opened by NewServer.
func (s *Server) Close() error {
	if !s.ownsStore || s.tools.store == nil {
		return nil
	}
	return s.tools.store.Close()
}

// toolError converts err into an MCP tool error result.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
