// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Hands out code-aligned corpora and records evaluation runs
package sqlite

import (
	"fmt"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/models"
)

// Storage manages all persistent data of the recommender
type Storage struct {
	db         *DB
	courses    *CourseStore
	embeddings *EmbeddingStore
	runs       *RunStore
}

// NewStorage opens storage at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewInMemoryStorage opens throwaway storage (for tests and dry runs)
func NewInMemoryStorage() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:         db,
		courses:    NewCourseStore(db),
		embeddings: NewEmbeddingStore(db),
		runs:       NewRunStore(db),
	}
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveCourses replaces the stored course set
func (s *Storage) SaveCourses(courses []models.Course) error {
	return s.courses.ReplaceAll(courses)
}

// ListCourses returns all courses in load order
func (s *Storage) ListCourses() ([]models.Course, error) {
	return s.courses.List()
}

// GetCourse returns one course by code
func (s *Storage) GetCourse(code string) (models.Course, error) {
	return s.courses.Get(code)
}

// CourseCount returns the number of stored courses
func (s *Storage) CourseCount() (int, error) {
	return s.courses.Count()
}

// SaveEmbeddings replaces the vectors of model
func (s *Storage) SaveEmbeddings(model string, m *core.EmbeddingMatrix) error {
	return s.embeddings.SaveMatrix(model, m)
}

// SaveEmbedding upserts a single course vector
func (s *Storage) SaveEmbedding(e models.CourseEmbedding) error {
	return s.embeddings.Save(e)
}

// EmbeddingModels lists models with stored vectors
func (s *Storage) EmbeddingModels() ([]ModelInfo, error) {
	return s.embeddings.Models()
}

// LoadCorpus returns the courses and vectors of model. It fails with
// corpus.ErrMisaligned if any course lacks a vector for model.
func (s *Storage) LoadCorpus(model string) (*corpus.Corpus, error) {
	courses, err := s.courses.List()
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	if len(courses) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	matrix, err := s.embeddings.LoadMatrix(model)
	if err != nil {
		return nil, fmt.Errorf("loading %s embeddings: %w", model, err)
	}

	return corpus.New(model, courses, matrix)
}

// RestoreSnapshot replaces courses and the snapshot model's vectors
func (s *Storage) RestoreSnapshot(snap models.CorpusSnapshot) error {
	c, err := corpus.FromSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.courses.ReplaceAll(c.Courses()); err != nil {
		return err
	}
	return s.embeddings.SaveMatrix(snap.Model, c.Matrix())
}

// SaveRun stores an evaluation run
func (s *Storage) SaveRun(run *models.EvaluationRun) error {
	return s.runs.Save(run)
}

// ListRuns returns recent evaluation runs
func (s *Storage) ListRuns(limit int) ([]models.EvaluationRun, error) {
	return s.runs.List(limit)
}

// GetRun returns a run with per-query scores
func (s *Storage) GetRun(id string) (*models.EvaluationRun, error) {
	return s.runs.Get(id)
}
