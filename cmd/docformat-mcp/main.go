// Package main is the entry point for the docformat MCP server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/mcp"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/version"
)

func main() {
	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			slog.Error("PANIC", "error", r, "stack", string(debug.Stack()))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// stdout carries the protocol, so logs always go to stderr.
	logger := observability.NewLogger(cfg.Logging.Level, observability.FormatJSON, os.Stderr)
	slog.SetDefault(logger)

	srv, err := mcp.NewServer(mcp.ServerConfig{
		Config:  cfg,
		Version: version.String(),
		Logger:  logger,
		Metrics: observability.NewMetrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	// Check transport mode (stdio is the default for MCP clients)
	if os.Getenv("MCP_TRANSPORT") == "http" {
		return runHTTPServer(ctx, srv, logger)
	}

	logger.Info("MCP server ready on stdio", "version", version.String())
	return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func runHTTPServer(ctx context.Context, srv *mcp.Server, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(srv.MCPServer))

	addr := os.Getenv("MCP_SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	logger.Info("MCP server listening", "address", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	wg.Wait()
	return nil
}

func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		loader = loader.WithConfigPath(cfgFile)
	}
	return loader.Load()
}
