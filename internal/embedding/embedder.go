// ABOUTME: Embedder abstraction over hosted and local embedding models
// ABOUTME: EmbedAll uses native batching when available, else a bounded worker pool
package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Embedder turns text into a vector for one fixed model
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	ModelID() string
}

// BatchEmbedder is implemented by embedders that can embed many texts per call
type BatchEmbedder interface {
	Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedAll embeds texts in order
func EmbedAll(ctx context.Context, e Embedder, texts []string, workers int) ([][]float64, error) {
	if be, ok := e.(BatchEmbedder); ok {
		vecs, err := be.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("%s returned %d vectors for %d texts", e.ModelID(), len(vecs), len(texts))
		}
		return vecs, nil
	}

	if workers <= 0 {
		workers = 1
	}
	out := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := e.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			out[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
