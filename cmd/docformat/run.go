// Package main provides the docformat CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/output"
	"github.com/docformat-toolkit/docformat/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Format the message file",
	Long: `Format the message file using the instructions in the prompt file.

The document is split into chunks of at most --word-limit words. Each chunk
is formatted in order and appended to the output file; every chunk after the
first is preceded by a continuation banner.

Message files ending in .html, .pdf or .docx are converted to text first.`,
	RunE: runFormat,
}

// runFlags holds the flags for the run command
type runFlags struct {
	wordLimit int
	strategy  string
	prompt    string
	message   string
	output    string
	noContext bool
	backend   string
	model     string
	quiet     bool
}

var runOpts runFlags

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runOpts.wordLimit, "word-limit", "w", 0, "Maximum words per chunk (100-10000)")
	runCmd.Flags().StringVarP(&runOpts.strategy, "strategy", "s", "", "Chunking strategy: even, sentence")
	runCmd.Flags().StringVar(&runOpts.prompt, "prompt", "", "Formatting instructions file")
	runCmd.Flags().StringVarP(&runOpts.message, "message", "m", "", "Document to format")
	runCmd.Flags().StringVarP(&runOpts.output, "output", "o", "", "Output file")
	runCmd.Flags().BoolVar(&runOpts.noContext, "no-context", false, "Do not load or update the saved context")
	runCmd.Flags().StringVar(&runOpts.backend, "backend", "", "Formatter backend: openai, claude, echo")
	runCmd.Flags().StringVar(&runOpts.model, "model", "", "Model name passed to the formatter")
	runCmd.Flags().BoolVarP(&runOpts.quiet, "quiet", "q", false, "Suppress progress output")
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	logger := newLogger(cfg, cmd.ErrOrStderr())
	metrics := observability.NewMetrics()
	console := output.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.WithQuiet(runOpts.quiet))

	r, err := runner.FromConfig(cfg, runner.Environment{
		Logger:   logger,
		Metrics:  metrics,
		Reporter: console,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	res := r.Run(cmd.Context())
	logger.Debug("run metrics", "metrics", metrics.Snapshot())
	if !res.Success {
		return &reportedError{err: r.Err()}
	}
	return nil
}

// applyRunFlags overrides cfg with every run flag set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("word-limit") {
		cfg.Chunking.WordLimit = runOpts.wordLimit
	}
	if flags.Changed("strategy") {
		cfg.Chunking.Strategy = runOpts.strategy
	}
	if flags.Changed("prompt") {
		cfg.Files.Prompt = runOpts.prompt
	}
	if flags.Changed("message") {
		cfg.Files.Message = runOpts.message
	}
	if flags.Changed("output") {
		cfg.Files.Output = runOpts.output
	}
	if runOpts.noContext {
		cfg.Context.Enabled = false
	}
	if flags.Changed("backend") {
		cfg.Formatter.Backend = runOpts.backend
	}
	if flags.Changed("model") {
		cfg.Formatter.Model = runOpts.model
	}
}
