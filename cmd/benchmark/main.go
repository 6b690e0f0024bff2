// ABOUTME: Command-line benchmark runner for retrieval quality
// ABOUTME: Scores stored embedding models with NDCG@k and outputs JSON results

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/harper/course-recommender/benchmarks/ndcg"
	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/embedding"
)

func main() {
	evalSet := flag.String("evalset", "evalset.yaml", "Labeled query set (JSON or YAML)")
	model := flag.String("model", "", "Benchmark one stored model. If empty, benchmarks every stored model.")
	k := flag.Int("k", 0, "Cutoff rank (default from config)")
	threshold := flag.Float64("threshold", 0.5, "Minimum NDCG@k for PASS")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(context.Background(), logger, *evalSet, *model, *k, *threshold, *outputPath); err != nil {
		logger.Fatal("benchmark failed", "err", err)
	}
}

func run(ctx context.Context, logger *log.Logger, evalSet, model string, k int, threshold float64, outputPath string) error {
	queries, err := corpus.LoadEvalSet(evalSet)
	if err != nil {
		return err
	}

	app, err := bootstrap.Load(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if k == 0 {
		k = app.Config.EvalK
	}

	factory := func(m string) (embedding.Embedder, error) {
		e, err := app.EmbedderForModel(m)
		if errors.Is(err, bootstrap.ErrNoEmbedder) {
			return nil, fmt.Errorf("%w: %s", ndcg.ErrNoEmbedder, m)
		}
		return e, err
	}

	runner, err := ndcg.NewBenchmarkRunner(app.Store, factory, ndcg.Config{
		K:         k,
		Threshold: threshold,
		Workers:   app.Config.Workers,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	fmt.Println("========================================")
	fmt.Println("Course Retrieval Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	var names []string
	if model != "" {
		names = []string{model}
	}
	results, err := runner.RunAll(ctx, queries, names...)
	if err != nil {
		return err
	}
	report := runner.BuildReport(results)

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, res := range report.Results {
		fmt.Printf("\n%s\n", res.Model)
		if res.Status != ndcg.StatusSkip {
			fmt.Printf("  NDCG@%d:   %.4f\n", res.K, res.Metrics[core.MetricNDCG])
			fmt.Printf("  Hit rate: %.4f\n", res.Metrics[ndcg.MetricHitRate])
			fmt.Printf("  MRR:      %.4f\n", res.Metrics[ndcg.MetricMRR])
		} else {
			fmt.Printf("  Skipped:  %s\n", res.Error)
		}
		fmt.Printf("  Status:   %s\n", res.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Models: %d\n", report.TotalModels)
	fmt.Printf("Passed: %d\n", report.Passed)
	fmt.Printf("Failed: %d\n", report.Failed)
	fmt.Printf("Skipped: %d\n", report.Skipped)
	fmt.Println("========================================")

	if err := runner.ExportResults(report, outputPath); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d model(s) below NDCG threshold %.2f", report.Failed, threshold)
	}
	return nil
}
