// ABOUTME: CLI command to list recorded evaluation runs
// ABOUTME: Shows recent runs, or one run with its per-query scores
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	runsLimit int
)

// NewRunsCmd creates the runs command
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List evaluation runs",
		Long: `List recorded evaluation runs, newest first.

With a run ID, show that run with the NDCG of every query.

Examples:
  courserec runs
  courserec runs --limit 50
  courserec runs 3f2b9c1e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRuns,
	}

	cmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(runsLimit, "limit"); err != nil {
		return err
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := app.Store.GetRun(args[0])
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		if jsonOutput() {
			return printJSON(out, run)
		}
		fmt.Fprintf(out, "Run:     %s\n", run.ID)
		fmt.Fprintf(out, "Model:   %s\n", run.Model)
		fmt.Fprintf(out, "NDCG@%d: %.4f\n", run.K, run.NDCG)
		fmt.Fprintf(out, "Queries: %d\n", run.QueryCount)
		fmt.Fprintf(out, "Created: %s\n\n", run.CreatedAt.Format("2006-01-02 15:04:05"))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NDCG\tQUERY\n")
		for _, s := range run.Scores {
			fmt.Fprintf(w, "%.3f\t%s\n", s.NDCG, truncate(oneLine(s.Query), 70))
		}
		return w.Flush()
	}

	runs, err := app.Store.ListRuns(runsLimit)
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(out, runs)
	}
	if len(runs) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No evaluation runs recorded")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tMODEL\tK\tNDCG\tQUERIES\tWHEN\n")
	fmt.Fprintf(w, "--\t-----\t-\t----\t-------\t----\n")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%d\t%s\n",
			r.ID, truncate(r.Model, 30), r.K, r.NDCG, r.QueryCount, formatTime(r.CreatedAt))
	}
	return w.Flush()
}
