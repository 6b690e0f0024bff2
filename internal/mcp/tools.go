// ABOUTME: MCP tool definitions and registration for the course recommender
// ABOUTME: Exposes search, recommendation, and course lookup over stdio
package mcp

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/recommend"
)

// DefaultMaxResults is used when a tool call omits max_results
const DefaultMaxResults = 5

// NewHandlers creates handlers over one loaded corpus
func NewHandlers(svc *recommend.Service, c *corpus.Corpus, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{service: svc, corpus: c, logger: logger}
}

// ServerName identifies the server to MCP clients
const ServerName = "Course Recommender"

// NewServer creates an MCP server with every tool registered
func NewServer(version string, h *Handlers) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(ServerName, version)
	RegisterTools(server, h)
	return server
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, h *Handlers) {
	// 1. search_courses - plain semantic search
	server.AddTool(mcp.Tool{
		Name:        "search_courses",
		Description: "Semantic search over the course catalog. Returns the best matching courses with similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What the user wants to learn, used verbatim as the search query",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of courses to return (default: 5)",
					"default":     DefaultMaxResults,
				},
			},
			Required: []string{"query"},
		},
	}, h.SearchCourses)

	// 2. recommend_courses - extraction, retrieval, and an optional written answer
	server.AddTool(mcp.Tool{
		Name:        "recommend_courses",
		Description: "Recommend courses for a free-form request. The request is condensed into a search query before retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"prompt": map[string]any{
					"type":        "string",
					"description": "The user's request in their own words",
				},
				"max_results": map[string]any{
					"type":        "number",
					"description": "Maximum number of courses to consider (default: 5)",
					"default":     DefaultMaxResults,
				},
			},
			Required: []string{"prompt"},
		},
	}, h.RecommendCourses)

	// 3. get_course - lookup by code
	server.AddTool(mcp.Tool{
		Name:        "get_course",
		Description: "Get the full record of one course by its code.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Course code, e.g. MS-A0011",
				},
			},
			Required: []string{"code"},
		},
	}, h.GetCourse)
}
