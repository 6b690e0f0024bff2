// ABOUTME: Query types for search and offline evaluation
// ABOUTME: LabeledQuery carries graded ground truth, most relevant answer first
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned when a labeled query is unusable for evaluation
var ErrInvalidQuery = errors.New("invalid labeled query")

// Query is a free-text query with its embedding
type Query struct {
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// LabeledQuery is an evaluation query with ordered expected course codes.
// Answers are ordered by relevance; the order is significant.
type LabeledQuery struct {
	Query   string   `json:"query" yaml:"query"`
	Answers []string `json:"answers" yaml:"answers"`
}

// Validate rejects queries that would make a score meaningless
func (q LabeledQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("%w: empty query text", ErrInvalidQuery)
	}
	if len(q.Answers) == 0 {
		return fmt.Errorf("%w: query %q has no answers", ErrInvalidQuery, q.Query)
	}
	return nil
}

// EvalSet is the on-disk shape of a labeled evaluation set
type EvalSet struct {
	Queries []LabeledQuery `json:"queries" yaml:"queries"`
}
