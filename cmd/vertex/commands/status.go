// ABOUTME: CLI command showing provider readiness and index counts
// ABOUTME: Mirrors the /health endpoint for terminal use
package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show provider readiness and index counts",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	indexed, err := app.embeddings.CountAll()
	if err != nil {
		return fmt.Errorf("counting embeddings: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n", app.db.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed embeddings: %d\n", indexed)
	fmt.Fprintf(cmd.OutOrStdout(), "Default model: %s\n\n", app.cfg.Embedding.DefaultModel)

	summary := app.registry.StatusSummary(cmd.Context())
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tREADY")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%t\n", name, summary[name])
	}
	return w.Flush()
}
