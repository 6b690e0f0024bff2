// ABOUTME: Error taxonomy shared by the retrieval and evaluation engine
// ABOUTME: Callers match these with errors.Is; none of them are retried here
package core

import "errors"

var (
	// ErrDimensionMismatch means a vector's dimension disagrees with the matrix
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmptyCorpus means there is nothing to rank against
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrInvalidArgument means a caller broke a function contract
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstreamFailure wraps failures of supplied embedding or translation capabilities
	ErrUpstreamFailure = errors.New("upstream failure")
)
