// ABOUTME: CLI commands for the text pipeline: sentence splitting and chunked translation
// ABOUTME: Both read a file argument or stdin
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/core"
)

const defaultSplitMaxLength = 512

var (
	splitMaxLength     int
	translateMaxLength int
)

// NewSplitCmd creates the split command
func NewSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split text into sentence-aligned chunks",
		Long: `Split text into chunks of whole sentences.

Sentences are packed greedily into chunks of at most --max-length bytes.
A sentence longer than the limit becomes its own chunk. Reads the file
argument, or stdin when it is omitted or "-".

Examples:
  courserec split description.txt
  cat description.txt | courserec split --max-length 200`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSplit,
	}

	cmd.Flags().IntVar(&splitMaxLength, "max-length", defaultSplitMaxLength, "Maximum chunk length in bytes")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	chunks, err := core.Split(text, splitMaxLength)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), chunks)
	}
	for _, c := range chunks {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

// NewTranslateCmd creates the translate command
func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate Finnish text to English",
		Long: `Translate Finnish text to English with the translation model.

Long text is split into sentence-aligned chunks of at most --max-length
bytes, chunks are translated concurrently, and the translations are
joined in order.

Examples:
  courserec translate kuvaus.txt
  echo "Kurssilla opitaan lineaarialgebraa." | courserec translate`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().IntVar(&translateMaxLength, "max-length", defaultSplitMaxLength, "Maximum chunk length in bytes")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text provided")
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	client, err := app.LLM()
	if err != nil {
		return err
	}

	out, err := core.TranslateChunked(cmd.Context(), text, translateMaxLength, client, app.Config.Workers)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
