// ABOUTME: Evaluation run persistence for SQLite
// ABOUTME: Runs get UUIDs; per-query scores are stored in eval set order
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harper/course-recommender/internal/models"
)

// RunStore handles evaluation run persistence
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Save stores run and its scores, assigning an ID and timestamp when missing
func (s *RunStore) Save(run *models.EvaluationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	return s.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO eval_runs (id, model, k, ndcg, query_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.Model, run.K, run.NDCG, run.QueryCount, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}

		for i, score := range run.Scores {
			preds, err := json.Marshal(score.Predictions)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`
				INSERT INTO eval_scores (run_id, position, query, ndcg, predictions)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, i, score.Query, score.NDCG, string(preds)); err != nil {
				return fmt.Errorf("saving score %d: %w", i, err)
			}
		}
		return nil
	})
}

// List returns the most recent runs without per-query scores
func (s *RunStore) List(limit int) ([]models.EvaluationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, model, k, ndcg, query_count, created_at
		FROM eval_runs
		ORDER BY created_at DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []models.EvaluationRun
	for rows.Next() {
		var r models.EvaluationRun
		if err := rows.Scan(&r.ID, &r.Model, &r.K, &r.NDCG, &r.QueryCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run with its scores
func (s *RunStore) Get(id string) (*models.EvaluationRun, error) {
	var r models.EvaluationRun
	err := s.db.QueryRow(`
		SELECT id, model, k, ndcg, query_count, created_at
		FROM eval_runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Model, &r.K, &r.NDCG, &r.QueryCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT query, ndcg, predictions
		FROM eval_scores
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			score models.QueryScore
			preds string
		)
		if err := rows.Scan(&score.Query, &score.NDCG, &preds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(preds), &score.Predictions); err != nil {
			return nil, fmt.Errorf("decoding predictions: %w", err)
		}
		r.Scores = append(r.Scores, score)
	}
	return &r, rows.Err()
}
