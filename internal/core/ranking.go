// ABOUTME: RankingEvaluator computes NDCG against graded, position-derived relevance
// ABOUTME: Ground-truth position i within the first k answers has relevance k-i
package core

import (
	"fmt"
	"math"
)

// NDCG scores predictions against groundTruth at cutoff k.
//
// len(predictions) must equal k. Only the first k ground-truth codes carry
// relevance. Each prediction takes the relevance of the first matching
// ground-truth code, so a code predicted twice is credited at both positions
// and the score can exceed 1.
func NDCG(groundTruth, predictions []string, k int) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(predictions) != k {
		return 0, fmt.Errorf("%w: got %d predictions for k=%d", ErrInvalidArgument, len(predictions), k)
	}

	truth := groundTruth
	if len(truth) > k {
		truth = truth[:k]
	}

	var dcg float64
	for i, code := range predictions {
		dcg += relevance(truth, code, k) / discount(i)
	}

	return dcg / idealDCG(k), nil
}

// relevance returns k-j for the first j with truth[j] == code, or 0
func relevance(truth []string, code string, k int) float64 {
	for j, c := range truth {
		if c == code {
			return float64(k - j)
		}
	}
	return 0
}

func idealDCG(k int) float64 {
	var idcg float64
	for i := 0; i < k; i++ {
		idcg += float64(k-i) / discount(i)
	}
	return idcg
}

func discount(position int) float64 {
	return math.Log2(float64(position) + 2)
}

// MeanNDCG aggregates per-query scores with the arithmetic mean
func MeanNDCG(scores []float64) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: no scores to aggregate", ErrInvalidArgument)
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}
