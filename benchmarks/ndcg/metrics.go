// ABOUTME: Supplementary retrieval metrics computed alongside NDCG
// ABOUTME: Hit rate and mean reciprocal rank over the same top-k predictions

package ndcg

import (
	"github.com/harper/course-recommender/internal/models"
)

// Metric names reported next to core.MetricNDCG
const (
	MetricHitRate = "hit_rate"
	MetricMRR     = "mrr"
)

// MetricsCalculator computes per-query and aggregate supplementary metrics
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Hit reports whether any expected answer appears in predictions
func (m *MetricsCalculator) Hit(answers, predictions []string) bool {
	return m.firstHit(answers, predictions) >= 0
}

// ReciprocalRank is 1/(rank of the first prediction that is an expected answer), or 0
func (m *MetricsCalculator) ReciprocalRank(answers, predictions []string) float64 {
	idx := m.firstHit(answers, predictions)
	if idx < 0 {
		return 0
	}
	return 1 / float64(idx+1)
}

func (m *MetricsCalculator) firstHit(answers, predictions []string) int {
	want := make(map[string]bool, len(answers))
	for _, a := range answers {
		want[a] = true
	}
	for i, p := range predictions {
		if want[p] {
			return i
		}
	}
	return -1
}

// Aggregate returns mean hit rate and MRR. queries and scores are parallel slices.
func (m *MetricsCalculator) Aggregate(queries []models.LabeledQuery, scores []models.QueryScore) map[string]float64 {
	out := map[string]float64{MetricHitRate: 0, MetricMRR: 0}
	if len(scores) == 0 {
		return out
	}

	var hits, rr float64
	for i, s := range scores {
		if m.Hit(queries[i].Answers, s.Predictions) {
			hits++
		}
		rr += m.ReciprocalRank(queries[i].Answers, s.Predictions)
	}
	n := float64(len(scores))
	out[MetricHitRate] = hits / n
	out[MetricMRR] = rr / n
	return out
}
