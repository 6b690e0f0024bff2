// ABOUTME: Tests for the benchmark runner over in-memory storage
// ABOUTME: Uses a lookup embedder so NDCG outcomes are exact

package ndcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/embedding"
	"github.com/harper/course-recommender/internal/models"
	"github.com/harper/course-recommender/internal/storage/sqlite"
)

type lookupEmbedder struct {
	model string
	vecs  map[string][]float64
}

func (l lookupEmbedder) ModelID() string { return l.model }

func (l lookupEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	v, ok := l.vecs[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

var testQueries = []models.LabeledQuery{
	{Query: "matrices", Answers: []string{"MATH", "CS"}},
	{Query: "money", Answers: []string{"FIN", "CS"}},
}

func newBenchStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.NewInMemoryStorage()
	if err != nil {
		t.Fatalf("NewInMemoryStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	courses := []models.Course{
		{Code: "MATH", Name: "Linear Algebra"},
		{Code: "FIN", Name: "Corporate Finance"},
		{Code: "CS", Name: "Programming"},
	}
	if err := s.SaveCourses(courses); err != nil {
		t.Fatalf("SaveCourses() error = %v", err)
	}

	m := core.NewEmbeddingMatrix()
	_ = m.Add("MATH", []float64{1, 0})
	_ = m.Add("FIN", []float64{0, 1})
	_ = m.Add("CS", []float64{0.8, 0.1})
	if err := s.SaveEmbeddings("good", m); err != nil {
		t.Fatalf("SaveEmbeddings() error = %v", err)
	}
	if err := s.SaveEmbeddings("orphan", m); err != nil {
		t.Fatalf("SaveEmbeddings() error = %v", err)
	}
	return s
}

func factory(model string) (embedding.Embedder, error) {
	if model != "good" {
		return nil, fmt.Errorf("%w %s", ErrNoEmbedder, model)
	}
	return lookupEmbedder{model: "good", vecs: map[string][]float64{
		"matrices": {1, 0},
		"money":    {0, 1},
	}}, nil
}

func TestRunModel_PerfectRanking(t *testing.T) {
	s := newBenchStorage(t)
	r, err := NewBenchmarkRunner(s, factory, Config{K: 2, Threshold: 0.9})
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}

	res, err := r.RunModel(context.Background(), "good", testQueries)
	if err != nil {
		t.Fatalf("RunModel() error = %v", err)
	}
	if res.Status != StatusPass {
		t.Errorf("Status = %s, want PASS (metrics %v)", res.Status, res.Metrics)
	}
	if math.Abs(res.Metrics[core.MetricNDCG]-1) > 1e-9 {
		t.Errorf("ndcg = %v, want 1", res.Metrics[core.MetricNDCG])
	}
	if res.Metrics[MetricHitRate] != 1 || res.Metrics[MetricMRR] != 1 {
		t.Errorf("metrics = %v", res.Metrics)
	}

	run, err := s.GetRun(res.RunID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Model != "good" || len(run.Scores) != 2 {
		t.Errorf("stored run = %+v", run)
	}
}

func TestRunAll_SkipsModelsWithoutEmbedder(t *testing.T) {
	s := newBenchStorage(t)
	r, _ := NewBenchmarkRunner(s, factory, Config{K: 2, Threshold: 0.99})

	results, err := r.RunAll(context.Background(), testQueries)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	statuses := map[string]string{}
	for _, res := range results {
		statuses[res.Model] = res.Status
	}
	if statuses["good"] != StatusPass || statuses["orphan"] != StatusSkip {
		t.Errorf("statuses = %v", statuses)
	}

	report := r.BuildReport(results)
	if report.Passed != 1 || report.Skipped != 1 || report.Failed != 0 || report.ID == "" {
		t.Errorf("report = %+v", report)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := r.ExportResults(report, path); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if decoded.TotalModels != 2 {
		t.Errorf("TotalModels = %d, want 2", decoded.TotalModels)
	}
}

func TestRunModel_FailsBelowThreshold(t *testing.T) {
	s := newBenchStorage(t)
	wrong := func(string) (embedding.Embedder, error) {
		return lookupEmbedder{model: "good", vecs: map[string][]float64{
			"matrices": {0, 1},
			"money":    {1, 0},
		}}, nil
	}
	r, _ := NewBenchmarkRunner(s, wrong, Config{K: 2, Threshold: 0.5})

	res, err := r.RunModel(context.Background(), "good", testQueries)
	if err != nil {
		t.Fatalf("RunModel() error = %v", err)
	}
	if res.Status != StatusFail {
		t.Errorf("Status = %s, want FAIL (ndcg %v)", res.Status, res.Metrics[core.MetricNDCG])
	}
}

func TestRunModel_EmbedFailureAborts(t *testing.T) {
	s := newBenchStorage(t)
	r, _ := NewBenchmarkRunner(s, factory, Config{K: 2})

	_, err := r.RunModel(context.Background(), "good", []models.LabeledQuery{{Query: "unknown", Answers: []string{"MATH"}}})
	if !errors.Is(err, core.ErrUpstreamFailure) {
		t.Errorf("RunModel() error = %v, want ErrUpstreamFailure", err)
	}

	runs, _ := s.ListRuns(10)
	if len(runs) != 0 {
		t.Errorf("runs stored after failure = %d, want 0", len(runs))
	}
}

func TestNewBenchmarkRunner_Validation(t *testing.T) {
	s := newBenchStorage(t)
	if _, err := NewBenchmarkRunner(s, factory, Config{K: 0}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("K=0 error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewBenchmarkRunner(nil, factory, Config{K: 1}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("nil storage error = %v, want ErrInvalidArgument", err)
	}
}

func TestRunModel_TFIDFBaseline(t *testing.T) {
	s, err := sqlite.NewInMemoryStorage()
	if err != nil {
		t.Fatalf("NewInMemoryStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	courses := []models.Course{
		{Code: "MATH", Name: "Linear Algebra", Description: "Vectors, matrices and linear equations."},
		{Code: "FIN", Name: "Corporate Finance", Description: "Investment decisions and money markets."},
		{Code: "CS", Name: "Programming", Description: "Algorithms and data structures in Python."},
	}
	if err := s.SaveCourses(courses); err != nil {
		t.Fatalf("SaveCourses() error = %v", err)
	}

	docs := make([]string, len(courses))
	for i, c := range courses {
		docs[i] = c.EmbeddingText()
	}
	enc, err := embedding.FitTFIDF(docs)
	if err != nil {
		t.Fatalf("FitTFIDF() error = %v", err)
	}
	vecs, err := enc.EmbedBatch(context.Background(), docs)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	m := core.NewEmbeddingMatrix()
	for i, c := range courses {
		_ = m.Add(c.Code, vecs[i])
	}
	if err := s.SaveEmbeddings(enc.ModelID(), m); err != nil {
		t.Fatalf("SaveEmbeddings() error = %v", err)
	}

	byModel := func(model string) (embedding.Embedder, error) {
		if model != embedding.TFIDFModelID {
			return nil, fmt.Errorf("%w %s", ErrNoEmbedder, model)
		}
		return enc, nil
	}
	r, err := NewBenchmarkRunner(s, byModel, Config{K: 1, Threshold: 0.9})
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}

	queries := []models.LabeledQuery{
		{Query: "matrices", Answers: []string{"MATH"}},
		{Query: "money markets", Answers: []string{"FIN"}},
		{Query: "python algorithms", Answers: []string{"CS"}},
	}
	res, err := r.RunModel(context.Background(), embedding.TFIDFModelID, queries)
	if err != nil {
		t.Fatalf("RunModel() error = %v", err)
	}
	if res.Status != StatusPass {
		t.Errorf("Status = %s, want PASS (metrics %v)", res.Status, res.Metrics)
	}
	if math.Abs(res.Metrics[core.MetricNDCG]-1) > 1e-9 {
		t.Errorf("ndcg = %v, want 1", res.Metrics[core.MetricNDCG])
	}
}
