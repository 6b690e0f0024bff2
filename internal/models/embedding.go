// ABOUTME: Embedding models for corpus vectors and ranked search output
// ABOUTME: Defines CourseEmbedding, ScoredCourse, and corpus snapshots
package models

// CourseEmbedding is the vector of one course under one embedding model
type CourseEmbedding struct {
	Code   string    `json:"code"`
	Model  string    `json:"model"`
	Vector []float64 `json:"vector"`
}

// ScoredCourse is one entry of a ranked result
type ScoredCourse struct {
	Code   string  `json:"code"`
	Score  float64 `json:"score"`
	Course *Course `json:"course,omitempty"`
}

// SnapshotEntry pairs a course with its vector for transport
type SnapshotEntry struct {
	Course Course    `json:"course"`
	Vector []float64 `json:"vector"`
}

// CorpusSnapshot is an ordered, self-contained copy of the corpus for one model
type CorpusSnapshot struct {
	Model   string          `json:"model"`
	Entries []SnapshotEntry `json:"entries"`
}
