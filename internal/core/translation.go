// ABOUTME: Translation driver that feeds split chunks to a translator
// ABOUTME: Chunks are translated concurrently and reassembled in order
package core

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Translator translates one chunk of text
type Translator interface {
	Translate(ctx context.Context, chunk string) (string, error)
}

// TranslateFunc adapts a function to Translator
type TranslateFunc func(ctx context.Context, chunk string) (string, error)

// Translate calls f
func (f TranslateFunc) Translate(ctx context.Context, chunk string) (string, error) {
	return f(ctx, chunk)
}

// TranslateChunked splits text into chunks of at most maxLength, translates
// them with up to workers concurrent calls, and joins the translations with a
// single space. Blank text translates to "" without calling the translator.
func TranslateChunked(ctx context.Context, text string, maxLength int, translator Translator, workers int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	chunks, err := Split(text, maxLength)
	if err != nil {
		return "", err
	}

	if workers <= 0 {
		workers = 1
	}

	translated := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, chunk := range chunks {
		g.Go(func() error {
			out, err := translator.Translate(gctx, chunk)
			if err != nil {
				return fmt.Errorf("%w: translating chunk %d: %w", ErrUpstreamFailure, i, err)
			}
			translated[i] = strings.TrimSpace(out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(translated, " "), nil
}
