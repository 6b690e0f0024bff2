// ABOUTME: Corpus pairs validated courses with their aligned embedding matrix
// ABOUTME: Construction fails unless every course has exactly one vector
package corpus

import (
	"errors"
	"fmt"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/models"
)

// ErrMisaligned means the course set and the embedding matrix disagree on codes
var ErrMisaligned = errors.New("courses and embeddings are not aligned")

// Corpus is an immutable, code-aligned view of courses and vectors for one model
type Corpus struct {
	model   string
	courses []models.Course
	byCode  map[string]int
	matrix  *core.EmbeddingMatrix
}

// New checks alignment and builds a Corpus
func New(model string, courses []models.Course, matrix *core.EmbeddingMatrix) (*Corpus, error) {
	byCode := make(map[string]int, len(courses))
	var missing []string
	for i, c := range courses {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate course code %s", c.Code)
		}
		byCode[c.Code] = i
		if !matrix.Has(c.Code) {
			missing = append(missing, c.Code)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %d course(s) without %s embeddings, first %s", ErrMisaligned, len(missing), model, missing[0])
	}
	if matrix.Len() != len(courses) {
		for _, code := range matrix.Codes() {
			if _, ok := byCode[code]; !ok {
				return nil, fmt.Errorf("%w: embedding for unknown course %s", ErrMisaligned, code)
			}
		}
	}

	return &Corpus{
		model:   model,
		courses: courses,
		byCode:  byCode,
		matrix:  matrix,
	}, nil
}

// FromSnapshot rebuilds a Corpus from a transported snapshot, keeping entry order
func FromSnapshot(s models.CorpusSnapshot) (*Corpus, error) {
	matrix := core.NewEmbeddingMatrix()
	courses := make([]models.Course, 0, len(s.Entries))
	for _, e := range s.Entries {
		if err := matrix.Add(e.Course.Code, e.Vector); err != nil {
			return nil, fmt.Errorf("snapshot entry %s: %w", e.Course.Code, err)
		}
		courses = append(courses, e.Course)
	}
	return New(s.Model, courses, matrix)
}

// Snapshot returns a self-contained copy in matrix order
func (c *Corpus) Snapshot() models.CorpusSnapshot {
	snap := models.CorpusSnapshot{Model: c.model}
	for _, code := range c.matrix.Codes() {
		vec, _ := c.matrix.Vector(code)
		snap.Entries = append(snap.Entries, models.SnapshotEntry{
			Course: c.courses[c.byCode[code]],
			Vector: vec,
		})
	}
	return snap
}

// Model returns the embedding model name
func (c *Corpus) Model() string { return c.model }

// Matrix returns the embedding matrix; callers must not mutate it
func (c *Corpus) Matrix() *core.EmbeddingMatrix { return c.matrix }

// Len returns the number of courses
func (c *Corpus) Len() int { return len(c.courses) }

// Courses returns the courses in corpus order
func (c *Corpus) Courses() []models.Course {
	out := make([]models.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Course looks a course up by code
func (c *Corpus) Course(code string) (models.Course, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return models.Course{}, false
	}
	return c.courses[i], true
}

// Search ranks the corpus against a query vector and attaches course records
func (c *Corpus) Search(query []float64, topN int) ([]models.ScoredCourse, error) {
	results, err := core.SearchScored(query, c.matrix, topN)
	if err != nil {
		return nil, err
	}
	for i := range results {
		course := c.courses[c.byCode[results[i].Code]]
		results[i].Course = &course
	}
	return results, nil
}
