// ABOUTME: CLI command to recommend courses for a free-form request
// ABOUTME: Extracts a search query, retrieves courses, and prints a Markdown answer
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
)

var (
	recommendLimit   int
	recommendBackend string
	recommendNoLLM   bool
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <prompt>",
		Short: "Recommend courses for a request",
		Long: `Recommend courses for a request written in plain language.

The chat model condenses the request into a search query, the catalog is
searched with it, and the chat model writes a Markdown list of the
retrieved courses. With --no-llm the request is searched as written and
the courses are listed as numbered links.

Examples:
  courserec recommend "I want to learn how computers understand text"
  courserec recommend --no-llm --limit 3 "portfolio theory"`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().IntVar(&recommendLimit, "limit", 5, "Number of courses to retrieve")
	cmd.Flags().StringVar(&recommendBackend, "backend", bootstrap.BackendOpenAI, "Embedding backend: openai, onnx or tfidf")
	cmd.Flags().BoolVar(&recommendNoLLM, "no-llm", false, "Skip query extraction and the written answer")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(recommendLimit, "limit"); err != nil {
		return err
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	svc, _, err := app.Service(recommendBackend, !recommendNoLLM)
	if err != nil {
		return err
	}

	rec, err := svc.Recommend(cmd.Context(), args[0], recommendLimit)
	if err != nil {
		return fmt.Errorf("recommending courses: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), rec)
	}

	if rec.Query != rec.Prompt {
		logger.Info("searched", "query", rec.Query)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.Answer)
	return nil
}
