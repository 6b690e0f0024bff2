// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Serves course search and recommendation tools to LLM agents via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/mcp"
)

var (
	mcpBackend string
	mcpNoLLM   bool
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the course recommender as an MCP (Model Context Protocol) server,
giving LLM agents search_courses, recommend_courses, and get_course
tools over stdio. The catalog must be ingested and embedded first.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  courserec mcp

  # Configure in the client's config file:
  # {
  #   "mcpServers": {
  #     "courses": {
  #       "command": "courserec",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpBackend, "backend", bootstrap.BackendOpenAI, "Embedding backend: openai, onnx or tfidf")
	cmd.Flags().BoolVar(&mcpNoLLM, "no-llm", false, "Serve recommendations without query extraction or written answers")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	svc, c, err := app.Service(mcpBackend, !mcpNoLLM)
	if err != nil {
		return err
	}

	server := mcp.NewServer(versionInfo.Version, mcp.NewHandlers(svc, c, logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "model", c.Model(), "courses", c.Len())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
