// ABOUTME: CLI command to search notes by semantic similarity
// ABOUTME: Results print as a table or JSON depending on --format
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vertexhq/vertex/internal/models"
)

var (
	searchUser   string
	searchModel  string
	searchLimit  int
	searchFormat string
	searchMinSim float64
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes semantically",
		Long: `Search a user's notes by semantic similarity.

The query is embedded with the configured model and ranked against
stored note embeddings by cosine similarity.

Examples:
  vertex search --user 4f8a... "machine learning"
  vertex search --user 4f8a... --limit 5 --min-similarity 0.8 "tax documents"
  vertex search --user 4f8a... --format json "recipes"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchUser, "user", "", "User ID owning the notes (required)")
	cmd.Flags().StringVar(&searchModel, "model", "", "Embedding model to query with")
	cmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to return")
	cmd.Flags().StringVar(&searchFormat, "format", "table", "Output format: table or json")
	cmd.Flags().Float64Var(&searchMinSim, "min-similarity", -1, "Similarity floor in [0,1]")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(searchUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	query := models.SearchQuery{
		Text:       args[0],
		UserID:     userID,
		Model:      searchModel,
		MaxResults: searchLimit,
	}
	if searchMinSim >= 0 {
		query.MinSimilarity = &searchMinSim
	}

	result := app.engine.Search(cmd.Context(), query)

	if searchFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if result.TotalHits == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No notes found for query: %s\n", args[0])
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNOTE\tTITLE")
	for _, hit := range result.Hits {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", hit.Score, hit.NoteID, hit.Title)
	}
	return w.Flush()
}
