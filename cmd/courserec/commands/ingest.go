// ABOUTME: CLI command to load a scraped course catalog into storage
// ABOUTME: Dedupes by code, optionally translates descriptions, replaces the stored corpus
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/core"
	"github.com/harper/course-recommender/internal/corpus"
)

var (
	ingestTranslate bool
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <csv>",
		Short: "Load a course catalog CSV",
		Long: `Load a course catalog CSV into local storage.

The CSV needs code and name columns; description, credits, url, and
course_info are optional. When description is empty the course_info
sections are concatenated into one. Duplicate codes keep their first row.
The stored catalog is replaced, and embeddings of courses that are still
present are kept.

Examples:
  courserec ingest courses.csv
  courserec ingest --translate courses_fi.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestTranslate, "translate", false, "Translate descriptions from Finnish to English")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	courses, err := corpus.LoadCSVFile(args[0])
	if err != nil {
		return err
	}

	courses, dropped := corpus.Dedupe(courses)
	if len(dropped) > 0 {
		logger.Warn("dropped duplicate courses", "count", len(dropped), "codes", dropped)
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if ingestTranslate {
		client, err := app.LLM()
		if err != nil {
			return err
		}
		for i := range courses {
			if courses[i].Description == "" {
				continue
			}
			en, err := core.TranslateChunked(cmd.Context(), courses[i].Description, app.Config.SplitMaxLength, client, app.Config.Workers)
			if err != nil {
				return fmt.Errorf("translating %s: %w", courses[i].Code, err)
			}
			courses[i].Description = en
			logger.Debug("translated", "code", courses[i].Code)
		}
	}

	if err := app.Store.SaveCourses(courses); err != nil {
		return fmt.Errorf("saving courses: %w", err)
	}

	logger.Info("ingested catalog", "courses", len(courses), "db", app.Config.DBPath)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d course(s)\n", len(courses))
	}
	return nil
}
