// Package main provides the docformat CLI application.
package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/observability"
	"github.com/docformat-toolkit/docformat/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docformat",
	Short: "Format long documents chunk by chunk",
	Long: `docformat splits a long document into word-bounded chunks, sends each
chunk to a formatting model with continuity instructions, and reassembles
the results into a single output file.

Context from previous runs (recent sessions, custom instructions and a
conversation summary) is carried forward when enabled.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	verbose   bool
}

var globalOpts globalFlags

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.config, "config", "c", "", "Path to configuration file (default .docformat.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "Verbose output (debug logging and run metrics)")
}

// loadConfig resolves configuration from files and the environment, then
// applies the persistent logging flags.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if globalOpts.config != "" {
		loader = loader.WithConfigPath(globalOpts.config)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if globalOpts.logLevel != "" {
		cfg.Logging.Level = globalOpts.logLevel
	}
	if globalOpts.logFormat != "" {
		cfg.Logging.Format = globalOpts.logFormat
	}
	if globalOpts.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, w)
}
