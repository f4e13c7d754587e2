// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"log/slog"
	"os"

	"github.com/docformat-toolkit/docformat/pkg/ai"
	"github.com/docformat-toolkit/docformat/pkg/chunk"
	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
	"github.com/docformat-toolkit/docformat/pkg/ingest"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/output"
	"github.com/docformat-toolkit/docformat/pkg/prompt"
	"github.com/docformat-toolkit/docformat/pkg/store"
)

// Environment supplies the process-level collaborators FromConfig cannot
// derive from the configuration itself.
type Environment struct {
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Reporter output.Reporter
	Files    fsio.FileSystem
	// Formatter overrides the formatter built from cfg.Formatter.
	Formatter ai.Formatter
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// FromConfig builds a Runner with every collaborator selected by cfg.
// The caller must Close the returned Runner.
func FromConfig(cfg *config.Config, env Environment) (*Runner, error) {
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	if env.Logger == nil {
		env.Logger = observability.Discard()
	}

	strategy, err := chunk.New(cfg.Chunking.Strategy)
	if err != nil {
		return nil, err
	}

	formatter := env.Formatter
	if formatter == nil {
		factory := ai.NewFactory(
			ai.WithFactoryLogger(env.Logger),
			ai.WithFactoryMetrics(env.Metrics),
			ai.WithEnv(env.Getenv),
		)
		if formatter, err = factory.Create(cfg.Formatter); err != nil {
			return nil, err
		}
	}

	var st store.ContextStore
	if cfg.Context.Enabled {
		st, err = store.Open(store.Config{
			Backend:    cfg.Context.Backend,
			Path:       cfg.Context.Path,
			MaxHistory: cfg.Context.MaxHistory,
			Logger:     env.Logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return New(OptionsFromConfig(cfg), Deps{
		Formatter: formatter,
		Files:     env.Files,
		Store:     st,
		Reporter:  env.Reporter,
		Strategy:  strategy,
		Builder:   prompt.NewContinuity(prompt.NewBase()),
		Converter: ingest.NewConverter(),
		Logger:    env.Logger,
		Metrics:   env.Metrics,
	}), nil
}
