// ABOUTME: Evaluation run records persisted after scoring a labeled set
// ABOUTME: QueryScore keeps per-query NDCG alongside the predictions
package models

import "time"

// QueryScore is the outcome of evaluating one labeled query
type QueryScore struct {
	Query       string   `json:"query"`
	NDCG        float64  `json:"ndcg"`
	Predictions []string `json:"predictions"`
}

// EvaluationRun is one stored evaluation of an embedding model
type EvaluationRun struct {
	ID         string       `json:"id"`
	Model      string       `json:"model"`
	K          int          `json:"k"`
	NDCG       float64      `json:"ndcg"`
	QueryCount int          `json:"query_count"`
	CreatedAt  time.Time    `json:"created_at"`
	Scores     []QueryScore `json:"scores,omitempty"`
}
