// ABOUTME: Tests for the recommendation service with fake model clients
// ABOUTME: Covers extraction fallback, answer writing, and error wrapping
package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/models"
)

type stubEmbedder struct {
	vecs  map[string][]float64
	model string
	err   error
	seen  []string
}

func (s *stubEmbedder) ModelID() string { return s.model }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	s.seen = append(s.seen, text)
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vecs[text]; ok {
		return v, nil
	}
	return []float64{0, 0}, nil
}

type extractorFunc func(ctx context.Context, prompt string) (string, error)

func (f extractorFunc) ExtractQuery(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type stubWriter struct {
	query   string
	courses []models.Course
	err     error
}

func (w *stubWriter) RecommendCourses(_ context.Context, query string, courses []models.Course) (string, error) {
	w.query = query
	w.courses = courses
	if w.err != nil {
		return "", w.err
	}
	return "written answer", nil
}

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	courses := []models.Course{
		{Code: "MATH", Name: "Linear Algebra", URL: "https://example.edu/math"},
		{Code: "FIN", Name: "Corporate Finance", URL: "https://example.edu/fin"},
		{Code: "CS", Name: "Programming 1", URL: "https://example.edu/cs"},
	}
	m := core.NewEmbeddingMatrix()
	vecs := [][]float64{{1, 0}, {0, 1}, {0.7, 0.3}}
	for i, c := range courses {
		if err := m.Add(c.Code, vecs[i]); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	c, err := corpus.New("stub", courses, m)
	if err != nil {
		t.Fatalf("corpus.New() error = %v", err)
	}
	return c
}

func TestNewService_ModelMismatch(t *testing.T) {
	_, err := NewService(&stubEmbedder{model: "other"}, testCorpus(t))
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("NewService() error = %v, want ErrInvalidArgument", err)
	}
}

func TestEmbedQuery(t *testing.T) {
	emb := &stubEmbedder{model: "stub", vecs: map[string][]float64{"corporate finance": {0, 1}}}
	svc, err := NewService(emb, testCorpus(t))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	q, err := svc.EmbedQuery(context.Background(), "corporate finance")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if q.Text != "corporate finance" || len(q.Embedding) != 2 || q.Embedding[1] != 1 {
		t.Errorf("EmbedQuery() = %+v", q)
	}

	if _, err := svc.EmbedQuery(context.Background(), "  "); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("EmbedQuery(blank) error = %v, want ErrInvalidArgument", err)
	}
	if len(emb.seen) != 1 {
		t.Errorf("embedder called %d times, want 1", len(emb.seen))
	}
}

func TestRecommend_ListWithoutWriter(t *testing.T) {
	emb := &stubEmbedder{model: "stub", vecs: map[string][]float64{"linear algebra": {1, 0}}}
	svc, err := NewService(emb, testCorpus(t), WithExtractor(extractorFunc(func(context.Context, string) (string, error) {
		return "linear algebra", nil
	})))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	rec, err := svc.Recommend(context.Background(), "I want to learn linear algebra.", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.Query != "linear algebra" {
		t.Errorf("Query = %q, want extracted query", rec.Query)
	}
	if len(rec.Courses) != 2 || rec.Courses[0].Code != "MATH" || rec.Courses[1].Code != "CS" {
		t.Errorf("Courses = %+v", rec.Courses)
	}
	want := "1: [Linear Algebra](https://example.edu/math)  \n2: [Programming 1](https://example.edu/cs)"
	if rec.Answer != want {
		t.Errorf("Answer = %q, want %q", rec.Answer, want)
	}
}

func TestRecommend_BlankExtractionFallsBack(t *testing.T) {
	emb := &stubEmbedder{model: "stub"}
	svc, _ := NewService(emb, testCorpus(t), WithExtractor(extractorFunc(func(context.Context, string) (string, error) {
		return "  ", nil
	})))

	rec, err := svc.Recommend(context.Background(), "finance please", 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.Query != "finance please" || emb.seen[0] != "finance please" {
		t.Errorf("Query = %q, embedded %v; want original prompt", rec.Query, emb.seen)
	}
}

func TestRecommend_WithWriter(t *testing.T) {
	emb := &stubEmbedder{model: "stub", vecs: map[string][]float64{"money": {0, 1}}}
	w := &stubWriter{}
	svc, _ := NewService(emb, testCorpus(t), WithWriter(w))

	rec, err := svc.Recommend(context.Background(), "money", 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.Answer != "written answer" {
		t.Errorf("Answer = %q", rec.Answer)
	}
	if w.query != "money" || len(w.courses) != 1 || w.courses[0].Code != "FIN" {
		t.Errorf("writer got query %q, courses %+v", w.query, w.courses)
	}
}

func TestRecommend_Errors(t *testing.T) {
	ctx := context.Background()

	svc, _ := NewService(&stubEmbedder{model: "stub"}, testCorpus(t))
	if _, err := svc.Recommend(ctx, "   ", 3); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("blank prompt error = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Recommend(ctx, "x", 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("n=0 error = %v, want ErrInvalidArgument", err)
	}

	failing, _ := NewService(&stubEmbedder{model: "stub", err: errors.New("timeout")}, testCorpus(t))
	if _, err := failing.Recommend(ctx, "x", 3); !errors.Is(err, core.ErrUpstreamFailure) {
		t.Errorf("embed failure error = %v, want ErrUpstreamFailure", err)
	}

	badWriter, _ := NewService(&stubEmbedder{model: "stub"}, testCorpus(t), WithWriter(&stubWriter{err: errors.New("rate limited")}))
	if _, err := badWriter.Recommend(ctx, "x", 3); !errors.Is(err, core.ErrUpstreamFailure) {
		t.Errorf("writer failure error = %v, want ErrUpstreamFailure", err)
	}
}

func TestRecommend_KeepsUpstreamCause(t *testing.T) {
	ctx := context.Background()
	corp := testCorpus(t)

	tests := []struct {
		name string
		opts []Option
		emb  *stubEmbedder
		want error
	}{
		{
			name: "embedder",
			emb:  &stubEmbedder{model: "stub", err: context.Canceled},
			want: context.Canceled,
		},
		{
			name: "extractor",
			emb:  &stubEmbedder{model: "stub"},
			opts: []Option{WithExtractor(extractorFunc(func(context.Context, string) (string, error) {
				return "", context.DeadlineExceeded
			}))},
			want: context.DeadlineExceeded,
		},
		{
			name: "writer",
			emb:  &stubEmbedder{model: "stub"},
			opts: []Option{WithWriter(&stubWriter{err: context.Canceled})},
			want: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.emb, corp, tt.opts...)
			if err != nil {
				t.Fatalf("NewService() error = %v", err)
			}
			_, err = svc.Recommend(ctx, "x", 1)
			if !errors.Is(err, core.ErrUpstreamFailure) {
				t.Errorf("Recommend() error = %v, want ErrUpstreamFailure", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Recommend() error = %v, want cause %v", err, tt.want)
			}
		})
	}
}

func TestFormatList(t *testing.T) {
	if got := FormatList(nil); got != "" {
		t.Errorf("FormatList(nil) = %q, want empty", got)
	}
	got := FormatList([]models.Course{{Name: "A", URL: "u1"}, {Name: "B", URL: "u2"}})
	if !strings.Contains(got, "1: [A](u1)  \n2: [B](u2)") {
		t.Errorf("FormatList() = %q", got)
	}
}
