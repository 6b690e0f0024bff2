// ABOUTME: MCP tool handler implementations for the course recommender
// ABOUTME: Failures are reported as tool errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/recommend"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service *recommend.Service
	corpus  *corpus.Corpus
	logger  *log.Logger
}

type courseResult struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Credits string  `json:"credits,omitempty"`
	URL     string  `json:"url,omitempty"`
	Score   float64 `json:"score"`
}

// SearchCourses handles the search_courses tool
func (h *Handlers) SearchCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", DefaultMaxResults)

	results, err := h.service.Search(ctx, query, maxResults)
	if err != nil {
		h.logger.Warn("search_courses failed", "query", query, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	out := make([]courseResult, 0, len(results))
	for _, r := range results {
		cr := courseResult{Code: r.Code, Score: r.Score}
		if r.Course != nil {
			cr.Name = r.Course.Name
			cr.Credits = r.Course.Credits
			cr.URL = r.Course.URL
		}
		out = append(out, cr)
	}

	return jsonResult(map[string]any{
		"query":   query,
		"model":   h.corpus.Model(),
		"count":   len(out),
		"results": out,
	})
}

// RecommendCourses handles the recommend_courses tool
func (h *Handlers) RecommendCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("prompt argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", DefaultMaxResults)

	rec, err := h.service.Recommend(ctx, prompt, maxResults)
	if err != nil {
		h.logger.Warn("recommend_courses failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}
	return jsonResult(rec)
}

// GetCourse handles the get_course tool
func (h *Handlers) GetCourse(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code argument is required and must be a string"), nil
	}

	course, ok := h.corpus.Course(code)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("course %s not found", code)), nil
	}
	return jsonResult(course)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
