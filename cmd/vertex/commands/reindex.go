// ABOUTME: CLI command that rebuilds embeddings for every stored note
// ABOUTME: Per-note failures are skipped; the pass always completes
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReindexCmd creates the reindex command.
func NewReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild embeddings for all notes",
		Long: `Delete and regenerate the embedding for every stored note using
the configured model and strategy.

Run this after changing the default model or indexing strategy.`,
		Args: cobra.NoArgs,
		RunE: runReindex,
	}
}

func runReindex(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	indexed, err := app.indexer.ReindexAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d notes\n", indexed)
	}
	return nil
}
