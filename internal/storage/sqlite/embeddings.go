// ABOUTME: Embedding storage operations for SQLite
// ABOUTME: Vectors are BLOBs keyed by (model, code) and loaded in course order
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/models"
	"github.com/harper/course-recommender/internal/util"
)

// EmbeddingStore handles embedding persistence
type EmbeddingStore struct {
	db *DB
}

// NewEmbeddingStore creates a new EmbeddingStore
func NewEmbeddingStore(db *DB) *EmbeddingStore {
	return &EmbeddingStore{db: db}
}

// ModelInfo summarizes the stored vectors of one model
type ModelInfo struct {
	Model     string `json:"model"`
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
}

// Save upserts one course vector. The course must already exist.
func (s *EmbeddingStore) Save(e models.CourseEmbedding) error {
	if len(e.Vector) == 0 {
		return fmt.Errorf("empty vector for %s", e.Code)
	}
	_, err := s.db.Exec(`
		INSERT INTO embeddings (model, code, dimension, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model, code) DO UPDATE SET
			dimension = excluded.dimension,
			vector = excluded.vector,
			created_at = CURRENT_TIMESTAMP
	`, e.Model, e.Code, len(e.Vector), util.EncodeVector(e.Vector))
	if err != nil {
		return fmt.Errorf("saving %s embedding for %s: %w", e.Model, e.Code, err)
	}
	return nil
}

// SaveMatrix replaces every stored vector of model with the rows of m
func (s *EmbeddingStore) SaveMatrix(model string, m *core.EmbeddingMatrix) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM embeddings WHERE model = ?`, model); err != nil {
			return fmt.Errorf("clearing %s embeddings: %w", model, err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO embeddings (model, code, dimension, vector)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, code := range m.Codes() {
			vec, _ := m.Vector(code)
			if _, err := stmt.Exec(model, code, len(vec), util.EncodeVector(vec)); err != nil {
				return fmt.Errorf("saving %s embedding for %s: %w", model, code, err)
			}
		}
		return nil
	})
}

// LoadMatrix returns the vectors of model ordered by course load position
func (s *EmbeddingStore) LoadMatrix(model string) (*core.EmbeddingMatrix, error) {
	rows, err := s.db.Query(`
		SELECT e.code, e.vector
		FROM embeddings e
		JOIN courses c ON c.code = e.code
		WHERE e.model = ?
		ORDER BY c.position ASC
	`, model)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	m := core.NewEmbeddingMatrix()
	for rows.Next() {
		var (
			code string
			blob []byte
		)
		if err := rows.Scan(&code, &blob); err != nil {
			return nil, err
		}
		vec, err := util.DecodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding %s embedding for %s: %w", model, code, err)
		}
		if err := m.Add(code, vec); err != nil {
			return nil, err
		}
	}
	return m, rows.Err()
}

// Models lists the embedding models with stored vectors
func (s *EmbeddingStore) Models() ([]ModelInfo, error) {
	rows, err := s.db.Query(`
		SELECT model, COUNT(*), MAX(dimension)
		FROM embeddings
		GROUP BY model
		ORDER BY model ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var infos []ModelInfo
	for rows.Next() {
		var info ModelInfo
		if err := rows.Scan(&info.Model, &info.Count, &info.Dimension); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

