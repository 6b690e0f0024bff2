// ABOUTME: EvaluationHarness scores retrieval over a labeled query set
// ABOUTME: Embeds each query, searches the corpus, and averages per-query NDCG
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harper/course-recommender/internal/models"
)

// MetricNDCG is the key of the aggregate NDCG in EvaluationResult.Metrics
const MetricNDCG = "ndcg"

// EmbeddingLookup produces the embedding of a query text
type EmbeddingLookup interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbedFunc adapts a function to EmbeddingLookup
type EmbedFunc func(ctx context.Context, text string) ([]float64, error)

// Embed calls f
func (f EmbedFunc) Embed(ctx context.Context, text string) ([]float64, error) {
	return f(ctx, text)
}

// EvaluationResult holds the aggregate metrics and the per-query scores in input order
type EvaluationResult struct {
	Metrics map[string]float64  `json:"metrics"`
	Queries []models.QueryScore `json:"queries"`
}

// NDCG returns the aggregate NDCG
func (r *EvaluationResult) NDCG() float64 {
	return r.Metrics[MetricNDCG]
}

// Evaluator runs the harness on a bounded worker pool
type Evaluator struct {
	workers int
	logger  *log.Logger
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets how many queries are evaluated concurrently
func WithWorkers(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for per-query debug output
func WithLogger(l *log.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an Evaluator; by default it runs one query at a time
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers: 1,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores every labeled query at cutoff k and returns the mean NDCG.
// An embedding failure aborts the whole evaluation; no partial mean is returned.
func (e *Evaluator) Evaluate(ctx context.Context, queries []models.LabeledQuery, lookup EmbeddingLookup, corpus *EmbeddingMatrix, k int) (*EvaluationResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no labeled queries", ErrInvalidArgument)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if corpus.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	scores := make([]models.QueryScore, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, q := range queries {
		g.Go(func() error {
			score, err := e.evaluateOne(gctx, q, lookup, corpus, k)
			if err != nil {
				return fmt.Errorf("query %d (%q): %w", i, q.Query, err)
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.NDCG
	}
	mean, err := MeanNDCG(values)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("evaluation finished", "queries", len(queries), "k", k, "ndcg", mean)

	return &EvaluationResult{
		Metrics: map[string]float64{MetricNDCG: mean},
		Queries: scores,
	}, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, q models.LabeledQuery, lookup EmbeddingLookup, corpus *EmbeddingMatrix, k int) (models.QueryScore, error) {
	if err := ctx.Err(); err != nil {
		return models.QueryScore{}, err
	}

	vec, err := lookup.Embed(ctx, q.Query)
	if err != nil {
		return models.QueryScore{}, fmt.Errorf("%w: embedding query: %w", ErrUpstreamFailure, err)
	}

	predictions, err := Search(vec, corpus, k)
	if err != nil {
		return models.QueryScore{}, err
	}

	ndcg, err := NDCG(q.Answers, predictions, k)
	if err != nil {
		return models.QueryScore{}, err
	}

	e.logger.Debug("scored query", "query", q.Query, "ndcg", ndcg)

	return models.QueryScore{
		Query:       q.Query,
		NDCG:        ndcg,
		Predictions: predictions,
	}, nil
}

// Evaluate runs a sequential evaluation and returns only the aggregate metrics
func Evaluate(ctx context.Context, queries []models.LabeledQuery, lookup EmbeddingLookup, corpus *EmbeddingMatrix, k int) (map[string]float64, error) {
	result, err := NewEvaluator().Evaluate(ctx, queries, lookup, corpus, k)
	if err != nil {
		return nil, err
	}
	return result.Metrics, nil
}
