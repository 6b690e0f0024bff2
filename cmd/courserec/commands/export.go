// ABOUTME: CLI command to export the stored catalog
// ABOUTME: Writes YAML, JSON, or Markdown to a file or stdout
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/storage/sqlite"
)

var (
	exportFormat string
	exportOutput string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the course catalog",
		Long: `Export the stored course catalog with the embedding models each course has.

Formats: yaml (default), json, markdown.

Examples:
  courserec export
  courserec export -f markdown -o catalog.md
  courserec export --format json -o catalog.json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Export format: yaml, json, markdown")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if exportOutput != "" {
		if err := app.Store.ExportTo(exportOutput, exportFormat); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", exportOutput)
		}
		return nil
	}

	data, err := app.Store.Export()
	if err != nil {
		return err
	}
	return sqlite.WriteExport(cmd.OutOrStdout(), data, exportFormat)
}
