// ABOUTME: Benchmark runner that evaluates stored embedding models against a labeled set
// ABOUTME: Records every run in SQLite and exports a JSON summary report

package ndcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/embedding"
	"github.com/harper/course-recommender/internal/models"
	"github.com/harper/course-recommender/internal/storage/sqlite"
)

// Result statuses
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

// EmbedderFactory returns the query embedder for a stored model
type EmbedderFactory func(model string) (embedding.Embedder, error)

// ErrNoEmbedder is returned by factories that cannot serve a model
var ErrNoEmbedder = errors.New("no embedder for model")

// ModelResult is the outcome of benchmarking one embedding model
type ModelResult struct {
	Model      string             `json:"model"`
	K          int                `json:"k"`
	QueryCount int                `json:"query_count"`
	Metrics    map[string]float64 `json:"metrics"`
	Status     string             `json:"status"`
	RunID      string             `json:"run_id,omitempty"`
	Error      string             `json:"error,omitempty"`
	Duration   time.Duration      `json:"duration_ns"`
}

// Report is the exported benchmark summary
type Report struct {
	ID          string        `json:"id"`
	Timestamp   string        `json:"timestamp"`
	K           int           `json:"k"`
	Threshold   float64       `json:"threshold"`
	TotalModels int           `json:"total_models"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	Results     []ModelResult `json:"results"`
}

// BenchmarkRunner executes NDCG benchmarks
type BenchmarkRunner struct {
	storage   *sqlite.Storage
	embedders EmbedderFactory
	evaluator *core.Evaluator
	metrics   *MetricsCalculator
	k         int
	threshold float64
	logger    *log.Logger
}

// Config configures a BenchmarkRunner
type Config struct {
	K         int
	Threshold float64
	Workers   int
	Logger    *log.Logger
}

// NewBenchmarkRunner creates a new benchmark runner
func NewBenchmarkRunner(store *sqlite.Storage, embedders EmbedderFactory, cfg Config) (*BenchmarkRunner, error) {
	if store == nil || embedders == nil {
		return nil, fmt.Errorf("%w: storage and embedder factory are required", core.ErrInvalidArgument)
	}
	if cfg.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", core.ErrInvalidArgument, cfg.K)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &BenchmarkRunner{
		storage:   store,
		embedders: embedders,
		evaluator: core.NewEvaluator(core.WithWorkers(cfg.Workers), core.WithLogger(logger)),
		metrics:   NewMetricsCalculator(),
		k:         cfg.K,
		threshold: cfg.Threshold,
		logger:    logger,
	}, nil
}

// RunModel evaluates one stored model and saves the run
func (r *BenchmarkRunner) RunModel(ctx context.Context, model string, queries []models.LabeledQuery) (ModelResult, error) {
	start := time.Now()
	result := ModelResult{Model: model, K: r.k, QueryCount: len(queries)}

	embedder, err := r.embedders(model)
	if err != nil {
		if errors.Is(err, ErrNoEmbedder) {
			result.Status = StatusSkip
			result.Error = err.Error()
			r.logger.Warn("skipping model", "model", model, "reason", err)
			return result, nil
		}
		return result, err
	}

	c, err := r.storage.LoadCorpus(model)
	if err != nil {
		return result, fmt.Errorf("loading corpus for %s: %w", model, err)
	}

	r.logger.Info("benchmarking", "model", model, "courses", c.Len(), "queries", len(queries), "k", r.k)

	eval, err := r.evaluator.Evaluate(ctx, queries, embedder, c.Matrix(), r.k)
	if err != nil {
		return result, fmt.Errorf("evaluating %s: %w", model, err)
	}

	result.Metrics = map[string]float64{core.MetricNDCG: eval.NDCG()}
	for name, v := range r.metrics.Aggregate(queries, eval.Queries) {
		result.Metrics[name] = v
	}
	result.Status = StatusFail
	if eval.NDCG() >= r.threshold {
		result.Status = StatusPass
	}

	run := &models.EvaluationRun{
		Model:      model,
		K:          r.k,
		NDCG:       eval.NDCG(),
		QueryCount: len(queries),
		Scores:     eval.Queries,
	}
	if err := r.storage.SaveRun(run); err != nil {
		return result, fmt.Errorf("saving run: %w", err)
	}
	result.RunID = run.ID
	result.Duration = time.Since(start)

	r.logger.Info("benchmark done", "model", model, "ndcg", eval.NDCG(), "status", result.Status)
	return result, nil
}

// RunAll benchmarks the named models, or every stored model when none are named
func (r *BenchmarkRunner) RunAll(ctx context.Context, queries []models.LabeledQuery, modelNames ...string) ([]ModelResult, error) {
	if len(modelNames) == 0 {
		infos, err := r.storage.EmbeddingModels()
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		for _, info := range infos {
			modelNames = append(modelNames, info.Model)
		}
	}
	if len(modelNames) == 0 {
		return nil, fmt.Errorf("%w: no embedding models stored", core.ErrEmptyCorpus)
	}

	results := make([]ModelResult, 0, len(modelNames))
	for _, model := range modelNames {
		res, err := r.RunModel(ctx, model, queries)
		if err != nil {
			return nil, fmt.Errorf("model %s failed: %w", model, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// BuildReport summarizes results
func (r *BenchmarkRunner) BuildReport(results []ModelResult) Report {
	report := Report{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		K:           r.k,
		Threshold:   r.threshold,
		TotalModels: len(results),
		Results:     results,
	}
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			report.Passed++
		case StatusFail:
			report.Failed++
		default:
			report.Skipped++
		}
	}
	return report
}

// ExportResults writes the report as indented JSON to outputPath
func (r *BenchmarkRunner) ExportResults(report Report, outputPath string) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	r.logger.Info("results exported", "path", outputPath)
	return nil
}
