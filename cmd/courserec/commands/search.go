// ABOUTME: CLI command to search the catalog by semantic similarity
// ABOUTME: Embeds the query verbatim and prints the top courses by score
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/models"
)

var (
	searchLimit   int
	searchBackend string
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search courses",
		Long: `Search the catalog by semantic similarity.

The query is embedded as written and compared against every stored
course vector of the backend's model. Ties keep catalog order.

Examples:
  courserec search "linear algebra"
  courserec search --limit 10 "machine learning"
  courserec search --format json "statistics for economists"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().StringVar(&searchBackend, "backend", bootstrap.BackendOpenAI, "Embedding backend: openai, onnx or tfidf")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	svc, _, err := app.Service(searchBackend, false)
	if err != nil {
		return err
	}

	results, err := svc.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("searching courses: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), results)
	}
	printScored(cmd, results)
	return nil
}

// printScored renders ranked courses as a table
func printScored(cmd *cobra.Command, results []models.ScoredCourse) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tCODE\tNAME\n")
	fmt.Fprintf(w, "----\t-----\t----\t----\n")
	for i, r := range results {
		name := ""
		if r.Course != nil {
			name = r.Course.Name
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n", i+1, r.Score, r.Code, truncate(name, 60))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
}
