// Package main provides the docformat CLI application.
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/docformat-toolkit/docformat/pkg/chunk"
	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
	"github.com/docformat-toolkit/docformat/pkg/ingest"
	"github.com/docformat-toolkit/docformat/pkg/model"
	"github.com/docformat-toolkit/docformat/pkg/output"
)

// chunkCmd represents the chunk command
var chunkCmd = &cobra.Command{
	Use:   "chunk [FILE]",
	Short: "Show how a document would be split",
	Long: `Print the chunk plan for FILE (default: the configured message file)
without calling the formatter.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := cfg.Files.Message
		if len(args) == 1 {
			path = args[0]
		}
		limit := cfg.Chunking.WordLimit
		if cmd.Flags().Changed("word-limit") {
			limit = chunkOpts.wordLimit
		}
		name := cfg.Chunking.Strategy
		if cmd.Flags().Changed("strategy") {
			name = chunkOpts.strategy
		}

		plan, err := planFile(fsio.OS{}, ingest.NewConverter(), path, limit, name)
		if err != nil {
			return err
		}
		if chunkOpts.json {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		}
		printPlan(cmd.OutOrStdout(), path, plan)
		return nil
	},
}

// chunkFlags holds the flags for the chunk command
type chunkFlags struct {
	wordLimit int
	strategy  string
	json      bool
}

var chunkOpts chunkFlags

func init() {
	rootCmd.AddCommand(chunkCmd)

	chunkCmd.Flags().IntVarP(&chunkOpts.wordLimit, "word-limit", "w", 0, "Maximum words per chunk (100-10000)")
	chunkCmd.Flags().StringVarP(&chunkOpts.strategy, "strategy", "s", "", "Chunking strategy: even, sentence")
	chunkCmd.Flags().BoolVar(&chunkOpts.json, "json", false, "Print the plan as JSON")
}

func planFile(fs fsio.FileSystem, conv *ingest.Converter, path string, wordLimit int, strategyName string) (*chunk.Plan, error) {
	limit, err := model.NewWordLimit(wordLimit)
	if err != nil {
		return nil, err
	}
	strategy, err := chunk.New(strategyName)
	if err != nil {
		return nil, err
	}

	raw, ok, err := fs.Read(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotFound(path)
	}
	content, err := conv.Convert(path, []byte(raw))
	if err != nil {
		return nil, err
	}
	doc, err := model.NewDocument(content, path)
	if err != nil {
		return nil, err
	}
	return chunk.NewPlan(strategy, doc, limit), nil
}

func printPlan(w io.Writer, path string, plan *chunk.Plan) {
	fmt.Fprintf(w, "%s: %s words, limit %s, strategy %s, %d chunk(s)\n",
		path, output.FormatValue(plan.TotalWords), output.FormatValue(plan.WordLimit), plan.Strategy, len(plan.Chunks))
	for _, c := range plan.Chunks {
		fmt.Fprintf(w, "  %3d. %6s words  %q\n", c.Index, output.FormatValue(c.Words), c.Excerpt)
	}
}
