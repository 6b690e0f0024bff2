// ABOUTME: Tests for NDCG with graded, position-derived relevance
// ABOUTME: Covers perfect and reversed rankings, truncation, and duplicates

package core

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNDCG_PerfectRanking(t *testing.T) {
	gt := []string{"A", "B", "C", "D", "E"}

	got, err := NDCG(gt, []string{"A", "B", "C", "D", "E"}, 5)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	if math.Abs(got-1.0) > epsilon {
		t.Errorf("NDCG() = %v, want 1.0", got)
	}
}

func TestNDCG_PrefixOfLongerGroundTruth(t *testing.T) {
	gt := []string{"A", "B", "C", "D", "E", "F", "G"}

	for k := 1; k <= len(gt); k++ {
		got, err := NDCG(gt, gt[:k], k)
		if err != nil {
			t.Fatalf("NDCG(k=%d) error = %v", k, err)
		}
		if math.Abs(got-1.0) > epsilon {
			t.Errorf("NDCG(k=%d) = %v, want 1.0", k, got)
		}
	}
}

func TestNDCG_ReversedRanking(t *testing.T) {
	gt := []string{"A", "B", "C", "D", "E"}

	got, err := NDCG(gt, []string{"E", "D", "C", "B", "A"}, 5)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	if got <= 0 || got >= 1 {
		t.Errorf("NDCG() = %v, want strictly between 0 and 1", got)
	}

	var dcg, idcg float64
	for i := 0; i < 5; i++ {
		dcg += float64(i+1) / math.Log2(float64(i)+2)
		idcg += float64(5-i) / math.Log2(float64(i)+2)
	}
	if math.Abs(got-dcg/idcg) > epsilon {
		t.Errorf("NDCG() = %v, want %v", got, dcg/idcg)
	}
}

func TestNDCG_DisjointPredictions(t *testing.T) {
	got, err := NDCG([]string{"A", "B", "C"}, []string{"X", "Y", "Z"}, 3)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	if got != 0 {
		t.Errorf("NDCG() = %v, want 0", got)
	}
}

func TestNDCG_GroundTruthBeyondKIgnored(t *testing.T) {
	// C sits at position 3 of the ground truth, outside k=2.
	got, err := NDCG([]string{"A", "B", "C"}, []string{"C", "X"}, 2)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	if got != 0 {
		t.Errorf("NDCG() = %v, want 0", got)
	}
}

func TestNDCG_ShortGroundTruth(t *testing.T) {
	// One answer with k=3: relevance 3 at position 0 only.
	got, err := NDCG([]string{"A"}, []string{"A", "X", "Y"}, 3)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	want := 3.0 / (3.0 + 2.0/math.Log2(3) + 1.0/2.0)
	if math.Abs(got-want) > epsilon {
		t.Errorf("NDCG() = %v, want %v", got, want)
	}
}

func TestNDCG_DuplicatePredictionsScoredIndependently(t *testing.T) {
	got, err := NDCG([]string{"A", "B"}, []string{"A", "A"}, 2)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}

	dcg := 2.0 + 2.0/math.Log2(3)
	idcg := 2.0 + 1.0/math.Log2(3)
	if math.Abs(got-dcg/idcg) > epsilon {
		t.Errorf("NDCG() = %v, want %v", got, dcg/idcg)
	}
	// repeating the top answer outscores the ideal ranking and is not clamped
	if got <= 1 {
		t.Errorf("NDCG() = %v, want > 1 for a repeated top answer", got)
	}
}

func TestNDCG_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		gt    []string
		preds []string
		k     int
	}{
		{"too few predictions", []string{"A", "B"}, []string{"A"}, 2},
		{"too many predictions", []string{"A", "B"}, []string{"A", "B", "C"}, 2},
		{"zero k", []string{"A"}, []string{}, 0},
		{"negative k", []string{"A"}, []string{"A"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NDCG(tt.gt, tt.preds, tt.k)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NDCG() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestMeanNDCG(t *testing.T) {
	got, err := MeanNDCG([]float64{1.0, 0.5, 0.0})
	if err != nil {
		t.Fatalf("MeanNDCG() error = %v", err)
	}
	if math.Abs(got-0.5) > epsilon {
		t.Errorf("MeanNDCG() = %v, want 0.5", got)
	}

	if _, err := MeanNDCG(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MeanNDCG(nil) error = %v, want ErrInvalidArgument", err)
	}
}
