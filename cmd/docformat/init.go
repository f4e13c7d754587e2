// Package main provides the docformat CLI application.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/fsio"
)

// defaultPrompt seeds the prompt file created by init.
const defaultPrompt = `Format the following text as clean, well-structured Markdown.

- Fix spelling, grammar and punctuation.
- Add headings and lists where they help the reader.
- Do not add, remove or reinterpret content.
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project config and data files",
	Long: `Create .docformat.yaml with the default settings and the prompt, message
and output files it names. Existing files are left untouched unless --force
is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffold(cmd.OutOrStdout(), fsio.OS{}, config.ProjectConfigFile, initOpts.force)
	},
}

// initFlags holds the flags for the init command
type initFlags struct {
	force bool
}

var initOpts initFlags

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initOpts.force, "force", "f", false, "Overwrite existing files")
}

// scaffold writes the default configuration to configPath and creates the
// files it references.
func scaffold(w io.Writer, fs fsio.FileSystem, configPath string, force bool) error {
	cfg := config.DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	files := []struct {
		path    string
		content string
	}{
		{configPath, string(data)},
		{cfg.Files.Prompt, defaultPrompt},
		{cfg.Files.Message, ""},
		{cfg.Files.Output, ""},
	}
	for _, f := range files {
		if fs.Exists(f.path) && !force {
			fmt.Fprintf(w, "skipped %s (exists)\n", f.path)
			continue
		}
		if err := fs.Write(f.path, f.content, false); err != nil {
			return err
		}
		fmt.Fprintf(w, "created %s\n", f.path)
	}
	fmt.Fprintf(w, "\nPut the document to format in %s, then run: docformat run\n", cfg.Files.Message)
	return nil
}
