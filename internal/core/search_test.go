// ABOUTME: Tests for SimilaritySearch ranking and tie-breaking
// ABOUTME: Verifies dot-product ordering, result length, and error cases

package core

import (
	"errors"
	"reflect"
	"testing"
)

func newTestMatrix(t *testing.T, rows ...struct {
	code string
	vec  []float64
}) *EmbeddingMatrix {
	t.Helper()
	m := NewEmbeddingMatrix()
	for _, r := range rows {
		if err := m.Add(r.code, r.vec); err != nil {
			t.Fatalf("Add(%s) error = %v", r.code, err)
		}
	}
	return m
}

type row = struct {
	code string
	vec  []float64
}

func TestSearch_OrdersByDotProduct(t *testing.T) {
	m := newTestMatrix(t,
		row{"CS-A1110", []float64{0.1, 0.0}},
		row{"MS-A0001", []float64{0.9, 0.1}},
		row{"ELEC-E5550", []float64{0.5, 0.5}},
	)

	got, err := Search([]float64{1, 0}, m, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"MS-A0001", "ELEC-E5550", "CS-A1110"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search() = %v, want %v", got, want)
	}
}

func TestSearch_UnnormalizedScores(t *testing.T) {
	// A long vector beats a better-aligned short one under plain dot product.
	m := newTestMatrix(t,
		row{"aligned", []float64{1, 0}},
		row{"long", []float64{3, 3}},
	)

	scored, err := SearchScored([]float64{1, 0}, m, 2)
	if err != nil {
		t.Fatalf("SearchScored() error = %v", err)
	}
	if scored[0].Code != "long" {
		t.Errorf("first result = %s, want long", scored[0].Code)
	}
	if scored[0].Score != 3 {
		t.Errorf("first score = %v, want 3", scored[0].Score)
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	codes := []string{"Z-9", "A-1", "M-5", "B-2", "Y-8", "C-3", "X-7", "D-4"}
	m := NewEmbeddingMatrix()
	for _, c := range codes {
		if err := m.Add(c, []float64{1, 1}); err != nil {
			t.Fatalf("Add(%s) error = %v", c, err)
		}
	}

	for run := 0; run < 5; run++ {
		got, err := Search([]float64{0.5, 0.5}, m, len(codes))
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if !reflect.DeepEqual(got, codes) {
			t.Fatalf("run %d: Search() = %v, want insertion order %v", run, got, codes)
		}
	}
}

func TestSearch_ResultLength(t *testing.T) {
	m := newTestMatrix(t,
		row{"A", []float64{1, 0}},
		row{"B", []float64{0, 1}},
		row{"C", []float64{1, 1}},
	)

	tests := []struct {
		name string
		topN int
		want int
	}{
		{"smaller than corpus", 2, 2},
		{"equal to corpus", 3, 3},
		{"larger than corpus", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Search([]float64{1, 1}, m, tt.topN)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len(Search()) = %d, want %d", len(got), tt.want)
			}
			seen := make(map[string]bool)
			for _, c := range got {
				if seen[c] {
					t.Errorf("duplicate code %s in %v", c, got)
				}
				seen[c] = true
			}
		})
	}
}

func TestSearch_SingleRowCorpus(t *testing.T) {
	m := newTestMatrix(t, row{"ONLY-1", []float64{0.2, 0.3}})

	got, err := Search([]float64{1, 1}, m, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"ONLY-1"}) {
		t.Errorf("Search() = %v, want [ONLY-1]", got)
	}
}

func TestSearch_Errors(t *testing.T) {
	m := newTestMatrix(t, row{"A", []float64{1, 0, 0}})

	tests := []struct {
		name    string
		query   []float64
		matrix  *EmbeddingMatrix
		topN    int
		wantErr error
	}{
		{"dimension mismatch", []float64{1, 0}, m, 1, ErrDimensionMismatch},
		{"empty matrix", []float64{1, 0, 0}, NewEmbeddingMatrix(), 1, ErrEmptyCorpus},
		{"nil matrix", []float64{1, 0, 0}, nil, 1, ErrEmptyCorpus},
		{"zero top_n", []float64{1, 0, 0}, m, 0, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(tt.query, tt.matrix, tt.topN)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Search() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch_DoesNotMutateMatrix(t *testing.T) {
	m := newTestMatrix(t,
		row{"A", []float64{0, 1}},
		row{"B", []float64{1, 0}},
	)

	if _, err := Search([]float64{1, 0}, m, 2); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got := m.Codes(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Codes() after search = %v, want [A B]", got)
	}
}
