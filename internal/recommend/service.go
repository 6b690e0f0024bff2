// ABOUTME: Recommendation service: query extraction, retrieval, and answer writing
// ABOUTME: Extraction and the LLM answer are optional; retrieval always runs
package recommend

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/embedding"
	"github.com/harper/course-recommender/internal/models"
)

// QueryExtractor rewrites a user message into a search query
type QueryExtractor interface {
	ExtractQuery(ctx context.Context, prompt string) (string, error)
}

// AnswerWriter composes a Markdown answer from retrieved courses
type AnswerWriter interface {
	RecommendCourses(ctx context.Context, query string, courses []models.Course) (string, error)
}

// Recommendation is the outcome of one request
type Recommendation struct {
	Prompt  string                `json:"prompt"`
	Query   string                `json:"query"`
	Courses []models.ScoredCourse `json:"courses"`
	Answer  string                `json:"answer"`
}

// Service answers course requests against one corpus
type Service struct {
	embedder  embedding.Embedder
	corpus    *corpus.Corpus
	extractor QueryExtractor
	writer    AnswerWriter
	logger    *log.Logger
}

// Option configures a Service
type Option func(*Service)

// WithExtractor enables query extraction
func WithExtractor(x QueryExtractor) Option {
	return func(s *Service) { s.extractor = x }
}

// WithWriter enables LLM-written answers
func WithWriter(w AnswerWriter) Option {
	return func(s *Service) { s.writer = w }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService builds a Service. The embedder must produce vectors of the corpus model.
func NewService(e embedding.Embedder, c *corpus.Corpus, opts ...Option) (*Service, error) {
	if e == nil || c == nil {
		return nil, fmt.Errorf("%w: embedder and corpus are required", core.ErrInvalidArgument)
	}
	if e.ModelID() != c.Model() {
		return nil, fmt.Errorf("%w: embedder model %s does not match corpus model %s", core.ErrInvalidArgument, e.ModelID(), c.Model())
	}
	s := &Service{embedder: e, corpus: c, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EmbedQuery embeds text verbatim with the corpus model
func (s *Service) EmbedQuery(ctx context.Context, text string) (models.Query, error) {
	if strings.TrimSpace(text) == "" {
		return models.Query{}, fmt.Errorf("%w: empty query", core.ErrInvalidArgument)
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return models.Query{}, fmt.Errorf("%w: embedding query: %w", core.ErrUpstreamFailure, err)
	}
	return models.Query{Text: text, Embedding: vec}, nil
}

// Search embeds query verbatim and returns the top n courses
func (s *Service) Search(ctx context.Context, query string, n int) ([]models.ScoredCourse, error) {
	q, err := s.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.corpus.Search(q.Embedding, n)
}

// Recommend runs the full pipeline for a user prompt
func (s *Service) Recommend(ctx context.Context, prompt string, n int) (*Recommendation, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", core.ErrInvalidArgument)
	}

	rec := &Recommendation{Prompt: prompt, Query: prompt}
	if s.extractor != nil {
		q, err := s.extractor.ExtractQuery(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: extracting query: %w", core.ErrUpstreamFailure, err)
		}
		if strings.TrimSpace(q) != "" {
			rec.Query = q
		}
		s.logger.Debug("extracted query", "prompt", prompt, "query", rec.Query)
	}

	results, err := s.Search(ctx, rec.Query, n)
	if err != nil {
		return nil, err
	}
	rec.Courses = results

	courses := make([]models.Course, 0, len(results))
	for _, r := range results {
		if r.Course != nil {
			courses = append(courses, *r.Course)
		}
	}

	if s.writer == nil {
		rec.Answer = FormatList(courses)
		return rec, nil
	}

	answer, err := s.writer.RecommendCourses(ctx, rec.Query, courses)
	if err != nil {
		return nil, fmt.Errorf("%w: writing answer: %w", core.ErrUpstreamFailure, err)
	}
	rec.Answer = answer
	return rec, nil
}

// FormatList renders courses as numbered Markdown links separated by hard line breaks
func FormatList(courses []models.Course) string {
	lines := make([]string, len(courses))
	for i, c := range courses {
		lines[i] = fmt.Sprintf("%d: [%s](%s)", i+1, c.Name, c.URL)
	}
	return strings.Join(lines, "  \n")
}
