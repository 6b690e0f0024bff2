// ABOUTME: CLI command to embed the stored catalog with one model
// ABOUTME: Writes one vector per course in catalog order for the chosen backend
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/embedding"
)

var (
	embedBackend string
)

// NewEmbedCmd creates the embed command
func NewEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute catalog embeddings",
		Long: `Compute an embedding for every stored course.

Each course is embedded from its description, or its name when the
description is empty. Vectors are stored under the backend's model name,
so several models can be kept side by side and compared with evaluate.

Examples:
  courserec embed
  courserec embed --backend onnx
  courserec embed --backend tfidf

The tfidf backend fits its vocabulary on the stored catalog, so run it
again after every ingest.`,
		Args: cobra.NoArgs,
		RunE: runEmbed,
	}

	cmd.Flags().StringVar(&embedBackend, "backend", bootstrap.BackendOpenAI, "Embedding backend: openai, onnx or tfidf")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	courses, err := app.Store.ListCourses()
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		return fmt.Errorf("%w: run 'courserec ingest' first", core.ErrEmptyCorpus)
	}

	embedder, err := app.Embedder(embedBackend)
	if err != nil {
		return err
	}

	texts := make([]string, len(courses))
	for i, c := range courses {
		texts[i] = c.EmbeddingText()
	}

	logger.Info("embedding catalog", "model", embedder.ModelID(), "courses", len(courses))
	vectors, err := embedding.EmbedAll(cmd.Context(), embedder, texts, app.Config.Workers)
	if err != nil {
		return fmt.Errorf("embedding catalog: %w", err)
	}

	matrix := core.NewEmbeddingMatrix()
	for i, c := range courses {
		if err := matrix.Add(c.Code, vectors[i]); err != nil {
			return err
		}
	}

	if err := app.Store.SaveEmbeddings(embedder.ModelID(), matrix); err != nil {
		return fmt.Errorf("saving embeddings: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d course(s) with %s (dimension %d)\n",
			matrix.Len(), embedder.ModelID(), matrix.Dimension())
	}
	return nil
}
