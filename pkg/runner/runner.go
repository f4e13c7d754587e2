// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package runner drives a single document formatting run: load the inputs,
// split the document, format every chunk in order and record the session.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/docformat-toolkit/docformat/pkg/ai"
	"github.com/docformat-toolkit/docformat/pkg/chunk"
	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/output"
	"github.com/docformat-toolkit/docformat/pkg/prompt"
	"github.com/docformat-toolkit/docformat/pkg/session"
	"github.com/docformat-toolkit/docformat/pkg/store"
)

// Metric names recorded by Run.
const (
	MetricRuns            = "runner.runs"
	MetricRunFailures     = "runner.failures"
	MetricRunDuration     = "runner.run_duration"
	MetricChunksFormatted = "runner.chunks_formatted"
	MetricFormatFailures  = "runner.format_failures"
	MetricChunkDuration   = "runner.chunk_duration"
	MetricWordsProcessed  = "runner.words_processed"
)

// Options holds the per-run settings.
type Options struct {
	// WordLimit is the maximum number of words sent per chunk.
	WordLimit int
	// PromptFile holds the formatting instructions.
	PromptFile string
	// MessageFile holds the document to format.
	MessageFile string
	// OutputFile receives the formatted result.
	OutputFile string
	// ContextEnabled loads and updates the cross-run context.
	ContextEnabled bool
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig extracts run options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		WordLimit:      cfg.Chunking.WordLimit,
		PromptFile:     cfg.Files.Prompt,
		MessageFile:    cfg.Files.Message,
		OutputFile:     cfg.Files.Output,
		ContextEnabled: cfg.Context.Enabled,
	}
}

// Converter turns raw message bytes into formattable text.
type Converter interface {
	Convert(path string, data []byte) (string, error)
}

// Deps are the collaborators a Runner drives. Formatter is required; the
// rest fall back to working defaults when nil.
type Deps struct {
	Formatter ai.Formatter
	Files     fsio.FileSystem
	Store     store.ContextStore
	Reporter  output.Reporter
	Strategy  chunk.Strategy
	Builder   prompt.Builder
	Converter Converter
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Runner executes formatting runs.
type Runner struct {
	mu      sync.RWMutex
	state   State
	session *session.ProcessingSession
	err     error

	opts Options
	deps Deps
}

// inputs is everything LoadingInputs produces.
type inputs struct {
	instructions string
	document     *model.Document
	limit        model.WordLimit
	context      *session.FormattingContext
}

// New creates a Runner.
func New(opts Options, deps Deps) *Runner {
	if deps.Files == nil {
		deps.Files = fsio.OS{}
	}
	if deps.Reporter == nil {
		deps.Reporter = output.Discard{}
	}
	if deps.Strategy == nil {
		deps.Strategy = chunk.EvenDistribution{}
	}
	if deps.Builder == nil {
		deps.Builder = prompt.NewContinuity(prompt.NewBase())
	}
	if deps.Logger == nil {
		deps.Logger = observability.Discard()
	}
	return &Runner{opts: opts, deps: deps, state: StateIdle}
}

// State returns the current state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Session returns the session of the most recent run, or nil.
func (r *Runner) Session() *session.ProcessingSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// Err returns the error that failed the most recent run, or nil.
func (r *Runner) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Close releases the context store.
func (r *Runner) Close() error {
	if r.deps.Store == nil {
		return nil
	}
	return r.deps.Store.Close()
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	prev := r.state
	r.state = s
	r.mu.Unlock()
	r.deps.Logger.Debug("state transition", "from", prev, "to", s)
}

// Run performs one formatting run. Failures are reported once through the
// Reporter and returned as a failed Result; Run never panics.
func (r *Runner) Run(ctx context.Context) (result *model.Result) {
	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()
	r.deps.Metrics.Inc(MetricRuns)
	defer r.deps.Metrics.Time(MetricRunDuration)()

	defer func() {
		if p := recover(); p != nil {
			step := r.State()
			r.deps.Logger.Error("run panicked", "state", step, "panic", p)
			result = r.fail(errors.StepFailed(step.String(), fmt.Errorf("panic: %v", p)))
		}
	}()

	if r.deps.Formatter == nil {
		return r.fail(errors.InvalidConfig("no formatter configured", nil))
	}

	in, err := r.loadInputs(ctx)
	if err != nil {
		return r.fail(err)
	}

	r.setState(StateChunking)
	chunks := r.deps.Strategy.Chunk(in.document, in.limit)
	contextPrompt := buildContextPrompt(in.context)

	r.setState(StateProcessingChunks)
	sess, err := r.processChunks(ctx, in, chunks, contextPrompt)
	if err != nil {
		return r.fail(err)
	}

	r.setState(StateFinalizing)
	result, err = r.finalize(ctx, sess, in.context)
	if err != nil {
		return r.fail(err)
	}

	r.setState(StateDone)
	return result
}

func (r *Runner) fail(err error) *model.Result {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	r.setState(StateFailed)
	r.deps.Metrics.Inc(MetricRunFailures)
	r.deps.Logger.Error("formatting run failed", "error", err)
	r.deps.Reporter.Error(err.Error())
	return model.FailureResult(err)
}

func (r *Runner) loadInputs(ctx context.Context) (*inputs, error) {
	r.setState(StateLoadingInputs)

	limit, err := model.NewWordLimit(r.opts.WordLimit)
	if err != nil {
		return nil, err
	}

	instructions, err := r.readRequired(r.opts.PromptFile, "Formatting prompt")
	if err != nil {
		return nil, err
	}
	raw, err := r.readRequired(r.opts.MessageFile, "Message")
	if err != nil {
		return nil, err
	}

	content := raw
	if r.deps.Converter != nil {
		if content, err = r.deps.Converter.Convert(r.opts.MessageFile, []byte(raw)); err != nil {
			return nil, err
		}
	}
	doc, err := model.NewDocument(content, r.opts.MessageFile)
	if err != nil {
		return nil, err
	}

	in := &inputs{instructions: instructions, document: doc, limit: limit}

	if r.opts.ContextEnabled {
		in.context = r.loadContext(ctx)
		r.deps.Reporter.Progress("Context loaded",
			output.D("sessions", len(in.context.History())),
			output.D("total_words", in.context.TotalWordsProcessed()),
			output.D("custom_instructions", in.context.HasCustomInstructions()),
		)
	}

	r.deps.Reporter.Progress("Document analysis",
		output.D("total_words", doc.WordCount()),
		output.D("word_limit", int(limit)),
		output.D("chunks_needed", r.deps.Strategy.ChunksNeeded(doc, limit)),
	)
	return in, nil
}

// readRequired reads path and rejects absent or blank content.
func (r *Runner) readRequired(path, what string) (string, error) {
	if _, err := model.NewFilePath(path); err != nil {
		return "", err
	}
	content, ok, err := r.deps.Files.Read(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.NotFound(path)
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.EmptyContent(what).WithDetail("path", path)
	}
	return content, nil
}

func (r *Runner) loadContext(ctx context.Context) *session.FormattingContext {
	if r.deps.Store == nil {
		return session.NewContext()
	}
	fc, err := r.deps.Store.Load(ctx)
	if err != nil {
		r.deps.Logger.Warn("could not load context, starting fresh", "error", err)
		return session.NewContext()
	}
	return fc
}

func buildContextPrompt(fc *session.FormattingContext) string {
	if fc == nil {
		return ""
	}
	return prompt.ContextPrompt(fc.ConversationSummary, fc.CustomInstructions,
		fc.RecentSummaries(session.MaxRecentSessions))
}

func (r *Runner) processChunks(ctx context.Context, in *inputs, chunks []string, contextPrompt string) (*session.ProcessingSession, error) {
	sess := session.New(in.document, in.instructions)
	r.mu.Lock()
	r.session = sess
	r.mu.Unlock()

	if err := r.deps.Files.Clear(r.opts.OutputFile); err != nil {
		return nil, err
	}

	total := len(chunks)
	for i, text := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, errors.StepFailed(StateProcessingChunks.String(), err).
				WithDetail("chunks_written", i)
		}

		pos, err := model.NewChunkPosition(i+1, total)
		if err != nil {
			return nil, err
		}
		r.deps.Reporter.Progress("Processing chunk "+pos.String(), output.D("words", model.CountWords(text)))

		formatted, err := r.formatChunk(ctx, in.instructions, text, contextPrompt, pos)
		if err != nil {
			return nil, err
		}
		if err := r.deps.Files.Write(r.opts.OutputFile, formatted, !pos.IsFirst()); err != nil {
			return nil, err
		}

		processed := session.NewProcessedChunk(formatted, pos)
		sess.AddChunk(processed)
		r.deps.Metrics.Inc(MetricChunksFormatted)
		r.deps.Metrics.Add(MetricWordsProcessed, int64(processed.WordCount))
	}
	return sess, nil
}

// formatChunk sends one chunk to the formatter. Context is only included with
// the first chunk and the position only when the document was split.
func (r *Runner) formatChunk(ctx context.Context, instructions, text, contextPrompt string, pos model.ChunkPosition) (string, error) {
	var posArg *model.ChunkPosition
	if !pos.IsSingle() {
		posArg = &pos
	}
	if !pos.IsFirst() {
		contextPrompt = ""
	}
	p := r.deps.Builder.BuildPrompt(instructions, text, contextPrompt, posArg)

	done := r.deps.Metrics.Time(MetricChunkDuration)
	formatted, err := r.deps.Formatter.Format(ctx, p)
	done()
	if err != nil {
		r.deps.Metrics.Inc(MetricFormatFailures)
		r.deps.Logger.Warn("chunk formatting failed", "chunk", pos.String(), "error", err)
		return "", err
	}

	if pos.NeedsContinuationHeader() {
		formatted = r.deps.Builder.BuildContinuationHeader(pos) + formatted
	}
	return formatted, nil
}

func (r *Runner) finalize(ctx context.Context, sess *session.ProcessingSession, fc *session.FormattingContext) (*model.Result, error) {
	sess.Complete()

	path := r.opts.OutputFile
	if !r.deps.Files.Exists(path) {
		return nil, errors.New(errors.KindWriteFailed, "Output file was not created: "+path, nil).
			WithDetail("path", path)
	}
	content, _, err := r.deps.Files.Read(path)
	if err != nil {
		return nil, err
	}
	preview := model.Preview(content)

	if fc != nil {
		fc.AddSession(sess)
		if r.deps.Store != nil {
			if err := r.deps.Store.Save(ctx, fc); err != nil {
				r.deps.Logger.Warn("could not save context", "error", err)
			}
		}
		r.deps.Reporter.Progress("Context updated", output.D("sessions", len(fc.History())))
	}

	msg := "Output saved to " + path
	r.deps.Reporter.Result(msg, preview)
	r.deps.Logger.Info("formatting run complete",
		"session", sess.ID.Short(),
		"chunks", sess.TotalChunks(),
		"words", sess.WordsProcessed(),
		"duration", sess.Duration(),
	)
	return model.SuccessResult(msg, preview), nil
}
