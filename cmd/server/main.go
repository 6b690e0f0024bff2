// ABOUTME: Main entry point for the course recommender MCP server with stdio transport
// ABOUTME: Loads the embedded catalog and serves search and recommendation tools
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/course-recommender/internal/bootstrap"
	"github.com/harper/course-recommender/internal/mcp"
)

var version = "dev"

func main() {
	// stdout carries the protocol; logs go to stderr
	logger := log.New(os.Stderr)

	backend := os.Getenv("COURSEREC_BACKEND")
	if backend == "" {
		backend = bootstrap.BackendOpenAI
	}

	app, err := bootstrap.Load(context.Background(), logger)
	if err != nil {
		logger.Fatal("failed to initialize", "err", err)
	}
	defer func() { _ = app.Close() }()

	svc, c, err := app.Service(backend, app.Config.OpenAIKey != "")
	if err != nil {
		logger.Fatal("failed to load catalog", "err", err)
	}

	server := mcp.NewServer(version, mcp.NewHandlers(svc, c, logger))

	logger.Info("MCP server starting on stdio", "model", c.Model(), "courses", c.Len())
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
		_ = app.Close()
		os.Exit(1)
	}
}
