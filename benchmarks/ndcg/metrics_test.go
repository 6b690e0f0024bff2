// ABOUTME: Tests for hit rate and reciprocal rank
// ABOUTME: Table-driven over answer and prediction lists

package ndcg

import (
	"math"
	"testing"

	"github.com/harper/course-recommender/internal/models"
)

func TestReciprocalRank(t *testing.T) {
	m := NewMetricsCalculator()

	tests := []struct {
		name        string
		answers     []string
		predictions []string
		want        float64
		wantHit     bool
	}{
		{name: "first position", answers: []string{"A"}, predictions: []string{"A", "B"}, want: 1, wantHit: true},
		{name: "third position", answers: []string{"C", "Z"}, predictions: []string{"A", "B", "C"}, want: 1.0 / 3, wantHit: true},
		{name: "any answer counts", answers: []string{"Z", "B"}, predictions: []string{"A", "B", "C"}, want: 0.5, wantHit: true},
		{name: "miss", answers: []string{"Z"}, predictions: []string{"A", "B"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ReciprocalRank(tt.answers, tt.predictions); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ReciprocalRank() = %v, want %v", got, tt.want)
			}
			if got := m.Hit(tt.answers, tt.predictions); got != tt.wantHit {
				t.Errorf("Hit() = %v, want %v", got, tt.wantHit)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	m := NewMetricsCalculator()
	queries := []models.LabeledQuery{
		{Query: "q1", Answers: []string{"A"}},
		{Query: "q2", Answers: []string{"C"}},
		{Query: "q3", Answers: []string{"X"}},
	}
	scores := []models.QueryScore{
		{Query: "q1", Predictions: []string{"A", "B"}},
		{Query: "q2", Predictions: []string{"B", "C"}},
		{Query: "q3", Predictions: []string{"A", "B"}},
	}

	got := m.Aggregate(queries, scores)
	if math.Abs(got[MetricHitRate]-2.0/3) > 1e-12 {
		t.Errorf("hit_rate = %v, want 2/3", got[MetricHitRate])
	}
	if math.Abs(got[MetricMRR]-0.5) > 1e-12 {
		t.Errorf("mrr = %v, want 0.5", got[MetricMRR])
	}

	empty := m.Aggregate(nil, nil)
	if empty[MetricHitRate] != 0 || empty[MetricMRR] != 0 {
		t.Errorf("Aggregate(empty) = %v, want zeros", empty)
	}
}
