// ABOUTME: SimilaritySearch ranks corpus vectors against a query vector
// ABOUTME: Unnormalized dot product, descending, ties kept in insertion order
package core

import (
	"fmt"
	"sort"

	"github.com/harper/course-recommender/internal/models"
)

// Search returns the codes of the topN best-scoring rows of m.
// If topN exceeds the corpus size the whole corpus is returned ranked.
func Search(query []float64, m *EmbeddingMatrix, topN int) ([]string, error) {
	scored, err := SearchScored(query, m, topN)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(scored))
	for i, s := range scored {
		codes[i] = s.Code
	}
	return codes, nil
}

// SearchScored is Search with the dot-product score of every returned row
func SearchScored(query []float64, m *EmbeddingMatrix, topN int) ([]models.ScoredCourse, error) {
	if m.Len() == 0 {
		return nil, ErrEmptyCorpus
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, topN)
	}
	if len(query) != m.Dimension() {
		return nil, fmt.Errorf("%w: query has dimension %d, corpus has %d", ErrDimensionMismatch, len(query), m.Dimension())
	}

	results := make([]models.ScoredCourse, len(m.codes))
	for i, vec := range m.vectors {
		results[i] = models.ScoredCourse{
			Code:  m.codes[i],
			Score: dot(query, vec),
		}
	}

	// Stable so equal scores stay in insertion order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
