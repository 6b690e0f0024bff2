// ABOUTME: Binary codec for float64 vectors stored as BLOBs or cache values
// ABOUTME: Little-endian IEEE 754, eight bytes per component
package util

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector converts a float64 slice to a little-endian byte slice
func EncodeVector(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// DecodeVector converts a blob produced by EncodeVector back to floats
func DecodeVector(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 8", len(blob))
	}
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector, nil
}

// Float32To64 widens a float32 vector
func Float32To64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
