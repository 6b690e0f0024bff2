// ABOUTME: EmbeddingMatrix maps course codes to vectors in insertion order
// ABOUTME: Alignment is by code, never by slice position supplied from outside
package core

import "fmt"

// EmbeddingMatrix holds one vector per course code with a uniform dimension.
// Rows keep the order in which they were added; that order breaks score ties.
// A matrix must not be mutated while a search is reading it.
type EmbeddingMatrix struct {
	codes   []string
	vectors [][]float64
	index   map[string]int
	dim     int
}

// NewEmbeddingMatrix creates an empty matrix
func NewEmbeddingMatrix() *EmbeddingMatrix {
	return &EmbeddingMatrix{index: make(map[string]int)}
}

// Add appends a row. The first row fixes the dimension.
func (m *EmbeddingMatrix) Add(code string, vector []float64) error {
	if code == "" {
		return fmt.Errorf("%w: empty course code", ErrInvalidArgument)
	}
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector for %s", ErrInvalidArgument, code)
	}
	if _, exists := m.index[code]; exists {
		return fmt.Errorf("%w: duplicate course code %s", ErrInvalidArgument, code)
	}
	if len(m.codes) > 0 && len(vector) != m.dim {
		return fmt.Errorf("%w: %s has dimension %d, matrix has %d", ErrDimensionMismatch, code, len(vector), m.dim)
	}
	if len(m.codes) == 0 {
		m.dim = len(vector)
	}

	row := make([]float64, len(vector))
	copy(row, vector)

	m.index[code] = len(m.codes)
	m.codes = append(m.codes, code)
	m.vectors = append(m.vectors, row)
	return nil
}

// Len returns the number of rows
func (m *EmbeddingMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.codes)
}

// Dimension returns the vector dimension, 0 for an empty matrix
func (m *EmbeddingMatrix) Dimension() int {
	if m == nil {
		return 0
	}
	return m.dim
}

// Codes returns the course codes in insertion order
func (m *EmbeddingMatrix) Codes() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.codes))
	copy(out, m.codes)
	return out
}

// Vector returns the vector stored for code
func (m *EmbeddingMatrix) Vector(code string) ([]float64, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[code]
	if !ok {
		return nil, false
	}
	return m.vectors[i], true
}

// Has reports whether code has a row
func (m *EmbeddingMatrix) Has(code string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[code]
	return ok
}
