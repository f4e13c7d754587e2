// Package main provides the docformat CLI application.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/output"
	"github.com/docformat-toolkit/docformat/pkg/session"
	"github.com/docformat-toolkit/docformat/pkg/store"
)

// contextCmd groups the commands that manage the persisted context
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Inspect or edit the saved formatting context",
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(cmd, false, func(cfg *config.Config, fc *session.FormattingContext) error {
			if contextOpts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fc.Snapshot(time.Now()))
			}
			printContext(cmd.OutOrStdout(), cfg, fc)
			return nil
		})
	},
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the session history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(cmd, true, func(cfg *config.Config, fc *session.FormattingContext) error {
			fc.ClearHistory()
			if contextOpts.all {
				fc.CustomInstructions = ""
				fc.ConversationSummary = ""
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Context cleared")
			return nil
		})
	},
}

var contextInstructionsCmd = &cobra.Command{
	Use:   "set-instructions TEXT",
	Short: "Set custom instructions sent with every run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(cmd, true, func(cfg *config.Config, fc *session.FormattingContext) error {
			fc.CustomInstructions = args[0]
			fmt.Fprintln(cmd.OutOrStdout(), "Custom instructions updated")
			return nil
		})
	},
}

var contextSummaryCmd = &cobra.Command{
	Use:   "set-summary TEXT",
	Short: "Set the conversation summary sent with every run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContext(cmd, true, func(cfg *config.Config, fc *session.FormattingContext) error {
			fc.ConversationSummary = args[0]
			fmt.Fprintln(cmd.OutOrStdout(), "Conversation summary updated")
			return nil
		})
	},
}

// contextFlags holds the flags for the context commands
type contextFlags struct {
	json bool
	all  bool
}

var contextOpts contextFlags

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextShowCmd, contextClearCmd, contextInstructionsCmd, contextSummaryCmd)

	contextShowCmd.Flags().BoolVar(&contextOpts.json, "json", false, "Print the context as JSON")
	contextClearCmd.Flags().BoolVar(&contextOpts.all, "all", false, "Also clear custom instructions and the conversation summary")
}

// withContext loads the context store named by the configuration, calls fn
// and, when save is set, persists the modified context.
func withContext(cmd *cobra.Command, save bool, fn func(*config.Config, *session.FormattingContext) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	st, err := store.Open(store.Config{
		Backend:    cfg.Context.Backend,
		Path:       cfg.Context.Path,
		MaxHistory: cfg.Context.MaxHistory,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	fc, err := st.Load(cmd.Context())
	if err != nil {
		logger.Warn("could not load context, starting fresh", "error", err)
		fc = session.NewContext()
	}
	if err := fn(cfg, fc); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return st.Save(cmd.Context(), fc)
}

func printContext(w io.Writer, cfg *config.Config, fc *session.FormattingContext) {
	fmt.Fprintf(w, "Context: %s (%s)\n", cfg.Context.Path, cfg.Context.Backend)
	details := []output.Detail{
		output.D("enabled", cfg.Context.Enabled),
		output.D("sessions", len(fc.History())),
		output.D("max_history", fc.MaxHistorySize),
		output.D("total_words", fc.TotalWordsProcessed()),
		output.D("total_chunks", fc.TotalChunksProcessed()),
	}
	for _, d := range details {
		fmt.Fprintf(w, "  • %s: %s\n", d.Key, output.FormatValue(d.Value))
	}

	if fc.HasCustomInstructions() {
		fmt.Fprintf(w, "\nCustom instructions:\n  %s\n", fc.CustomInstructions)
	}
	if fc.HasConversationSummary() {
		fmt.Fprintf(w, "\nConversation summary:\n  %s\n", fc.ConversationSummary)
	}
	if recent := fc.RecentSessions(session.MaxRecentSessions); len(recent) > 0 {
		fmt.Fprintln(w, "\nRecent sessions:")
		for _, s := range recent {
			fmt.Fprintf(w, "  • %s  %s  %s\n", s.ID.Short(), s.CreatedAt.Format(time.DateTime), s.Summary())
		}
	}
}
