// ABOUTME: Export functionality for the course corpus
// ABOUTME: Supports YAML, JSON, and Markdown export formats
package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string         `yaml:"version" json:"version"`
	ExportedAt string         `yaml:"exported_at" json:"exported_at"`
	Tool       string         `yaml:"tool" json:"tool"`
	Models     []ModelInfo    `yaml:"models,omitempty" json:"models,omitempty"`
	Courses    []ExportCourse `yaml:"courses" json:"courses"`
}

// ExportCourse is a course plus the models it has vectors for
type ExportCourse struct {
	Code        string   `yaml:"code" json:"code"`
	Name        string   `yaml:"name" json:"name"`
	Credits     string   `yaml:"credits,omitempty" json:"credits,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
	Embedded    []string `yaml:"embedded,omitempty" json:"embedded,omitempty"`
}

// Export collects courses and embedding coverage
func (s *Storage) Export() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "courserec",
	}

	infos, err := s.embeddings.Models()
	if err != nil {
		return nil, fmt.Errorf("failed to list embedding models: %w", err)
	}
	data.Models = infos

	embedded := make(map[string][]string)
	rows, err := s.db.Query(`SELECT code, model FROM embeddings ORDER BY model ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	for rows.Next() {
		var code, model string
		if err := rows.Scan(&code, &model); err != nil {
			_ = rows.Close()
			return nil, err
		}
		embedded[code] = append(embedded[code], model)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	courses, err := s.courses.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	data.Courses = make([]ExportCourse, 0, len(courses))
	for _, c := range courses {
		data.Courses = append(data.Courses, ExportCourse{
			Code:        c.Code,
			Name:        c.Name,
			Credits:     c.Credits,
			Description: c.Description,
			URL:         c.URL,
			Embedded:    embedded[c.Code],
		})
	}

	return data, nil
}

// ExportTo writes the export to outputPath in format yaml, json or markdown
func (s *Storage) ExportTo(outputPath, format string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteExport(file, data, format)
}

// WriteExport encodes data to w
func WriteExport(w io.Writer, data *ExportData, format string) error {
	switch format {
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "markdown", "md":
		return writeMarkdown(w, data)
	default:
		return fmt.Errorf("unknown export format %q (want yaml, json or markdown)", format)
	}
}

func writeMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Course Corpus Export - %s\n\n", data.ExportedAt)

	if len(data.Models) > 0 {
		_, _ = fmt.Fprintln(w, "## Embedding Models")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| Model | Courses | Dimension |")
		_, _ = fmt.Fprintln(w, "|-------|---------|-----------|")
		for _, m := range data.Models {
			_, _ = fmt.Fprintf(w, "| %s | %d | %d |\n", m.Model, m.Count, m.Dimension)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "## Courses")
	_, _ = fmt.Fprintln(w)
	for _, c := range data.Courses {
		title := c.Name
		if c.URL != "" {
			title = fmt.Sprintf("[%s](%s)", c.Name, c.URL)
		}
		_, err := fmt.Fprintf(w, "- **%s** %s", c.Code, title)
		if err != nil {
			return err
		}
		if c.Credits != "" {
			_, _ = fmt.Fprintf(w, " (%s cr)", c.Credits)
		}
		if len(c.Embedded) > 0 {
			_, _ = fmt.Fprintf(w, " *%s*", strings.Join(c.Embedded, ", "))
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}
