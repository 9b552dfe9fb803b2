// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for serve, search, reindex, status, and version
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vertex",
		Short: "Semantic note search",
		Long: `Vertex indexes notes into embedding vectors and searches them
by semantic similarity.

Notes are embedded with a configurable provider (Ollama or OpenAI)
and stored in SQLite. Search ranks notes by cosine similarity,
scoped to a single user.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewReindexCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
