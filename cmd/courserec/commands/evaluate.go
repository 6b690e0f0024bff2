// ABOUTME: CLI command to score retrieval against a labeled query set
// ABOUTME: Computes mean NDCG@k for one embedding model and records the run
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/models"
)

var (
	evaluateK       int
	evaluateBackend string
	evaluateNoSave  bool
)

// NewEvaluateCmd creates the evaluate command
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <evalset>",
		Short: "Measure retrieval quality with NDCG@k",
		Long: `Measure retrieval quality against a labeled query set.

The eval set is a JSON or YAML file of queries, each with the course
codes that answer it in order of relevance. Every query is embedded,
the top k courses are retrieved, and the mean NDCG@k is reported.
Runs are saved and can be listed with 'courserec runs'.

Examples:
  courserec evaluate queries.yaml
  courserec evaluate --k 10 --backend onnx queries.json`,
		Args: cobra.ExactArgs(1),
		RunE: runEvaluate,
	}

	cmd.Flags().IntVar(&evaluateK, "k", 0, "Cutoff rank (default from config, 5)")
	cmd.Flags().StringVar(&evaluateBackend, "backend", bootstrap.BackendOpenAI, "Embedding backend: openai, onnx or tfidf")
	cmd.Flags().BoolVar(&evaluateNoSave, "no-save", false, "Do not record the run")

	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	queries, err := corpus.LoadEvalSet(args[0])
	if err != nil {
		return err
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	k := evaluateK
	if k == 0 {
		k = app.Config.EvalK
	}
	if err := validatePositiveInt(k, "k"); err != nil {
		return err
	}

	embedder, err := app.Embedder(evaluateBackend)
	if err != nil {
		return err
	}
	c, err := app.Store.LoadCorpus(embedder.ModelID())
	if err != nil {
		return fmt.Errorf("loading corpus for %s: %w", embedder.ModelID(), err)
	}

	evaluator := core.NewEvaluator(core.WithWorkers(app.Config.Workers), core.WithLogger(logger))
	result, err := evaluator.Evaluate(cmd.Context(), queries, embedder, c.Matrix(), k)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	run := &models.EvaluationRun{
		Model:      embedder.ModelID(),
		K:          k,
		NDCG:       result.NDCG(),
		QueryCount: len(queries),
		Scores:     result.Queries,
	}
	if !evaluateNoSave {
		if err := app.Store.SaveRun(run); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), run)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NDCG\tQUERY\tTOP\n")
	fmt.Fprintf(w, "----\t-----\t---\n")
	for _, s := range run.Scores {
		top := ""
		if len(s.Predictions) > 0 {
			top = s.Predictions[0]
		}
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", s.NDCG, truncate(oneLine(s.Query), 60), top)
	}
	_ = w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s NDCG@%d = %.4f over %d queries\n", run.Model, k, run.NDCG, run.QueryCount)
	if run.ID != "" && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Run: %s\n", run.ID)
	}
	return nil
}
