// ABOUTME: Root command for the courserec CLI with global flags
// ABOUTME: Configures logging from --verbose/--quiet and validates --format
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
)

const banner = `
 ██████  ██████  ██    ██ ██████  ███████ ███████ ██████  ███████  ██████
██      ██    ██ ██    ██ ██   ██ ██      ██      ██   ██ ██      ██
██      ██    ██ ██    ██ ██████  ███████ █████   ██████  █████   ██
██      ██    ██ ██    ██ ██   ██      ██ ██      ██   ██ ██      ██
 ██████  ██████   ██████  ██   ██ ███████ ███████ ██   ██ ███████  ██████
`

var (
	verbose      bool
	quiet        bool
	outputFormat string

	logger = log.New(os.Stderr)
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courserec",
		Short: "Course recommendation retrieval and evaluation",
		Long: banner + `
Course recommendation by semantic search over a course catalog.

Ingest a scraped catalog, embed it with a hosted or local model, search
and recommend courses, and measure retrieval quality with NDCG@k against
a labeled query set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "json", "table":
			default:
				return fmt.Errorf("--format must be auto, json or table, got %q", outputFormat)
			}

			logger.SetOutput(cmd.ErrOrStderr())
			switch {
			case verbose:
				logger.SetLevel(log.DebugLevel)
			case quiet:
				logger.SetLevel(log.ErrorLevel)
			default:
				logger.SetLevel(log.InfoLevel)
			}
			return nil
		},
	}

	// Flags are package state; reset so repeated NewRootCmd calls start clean
	verbose, quiet, outputFormat = false, false, "auto"

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, table")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewEmbedCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewRecommendCmd())
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewSplitCmd())
	cmd.AddCommand(NewTranslateCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// openApp loads configuration and opens storage for a command
func openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	app, err := bootstrap.Load(cmd.Context(), logger)
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return app, nil
}

// jsonOutput reports whether results should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}
