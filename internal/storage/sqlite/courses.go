// ABOUTME: Course record persistence for SQLite
// ABOUTME: ReplaceAll swaps the whole corpus atomically and keeps load order
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/course-recommender/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// CourseStore handles course persistence
type CourseStore struct {
	db *DB
}

// NewCourseStore creates a new CourseStore
func NewCourseStore(db *DB) *CourseStore {
	return &CourseStore{db: db}
}

// ReplaceAll validates courses and replaces the stored corpus with them.
// Embeddings of removed courses are dropped by the cascade.
func (s *CourseStore) ReplaceAll(courses []models.Course) error {
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Code] {
			return fmt.Errorf("duplicate course code %s", c.Code)
		}
		seen[c.Code] = true
	}

	return s.db.WithTx(func(tx *sql.Tx) error {
		if err := deleteMissingCourses(tx, seen); err != nil {
			return err
		}
		// Shift positions out of the way so the UNIQUE constraint holds while renumbering.
		if _, err := tx.Exec(`UPDATE courses SET position = -position - 1`); err != nil {
			return fmt.Errorf("resetting positions: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO courses (code, position, name, credits, description, url)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET
				position = excluded.position,
				name = excluded.name,
				credits = excluded.credits,
				description = excluded.description,
				url = excluded.url
		`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for i, c := range courses {
			if _, err := stmt.Exec(c.Code, i, c.Name, c.Credits, c.Description, c.URL); err != nil {
				return fmt.Errorf("saving course %s: %w", c.Code, err)
			}
		}
		return nil
	})
}

func deleteMissingCourses(tx *sql.Tx, keep map[string]bool) error {
	rows, err := tx.Query(`SELECT code FROM courses`)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			_ = rows.Close()
			return err
		}
		if !keep[code] {
			stale = append(stale, code)
		}
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, code := range stale {
		if _, err := tx.Exec(`DELETE FROM courses WHERE code = ?`, code); err != nil {
			return fmt.Errorf("removing course %s: %w", code, err)
		}
	}
	return nil
}

// List returns all courses in load order
func (s *CourseStore) List() ([]models.Course, error) {
	rows, err := s.db.Query(`
		SELECT code, name, credits, description, url
		FROM courses
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get retrieves one course by code
func (s *CourseStore) Get(code string) (models.Course, error) {
	row := s.db.QueryRow(`
		SELECT code, name, credits, description, url
		FROM courses
		WHERE code = ?
	`, code)

	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	return c, err
}

// Count returns the number of stored courses
func (s *CourseStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (models.Course, error) {
	var (
		c           models.Course
		credits     sql.NullString
		description sql.NullString
		url         sql.NullString
	)
	if err := row.Scan(&c.Code, &c.Name, &credits, &description, &url); err != nil {
		return models.Course{}, err
	}
	c.Credits = credits.String
	c.Description = description.String
	c.URL = url.String
	return c, nil
}
