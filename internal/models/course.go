// ABOUTME: Course is the fixed-shape record for one corpus entry
// ABOUTME: Records are validated once at corpus-load time and never mutated
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCourse is returned when a course record fails validation
var ErrInvalidCourse = errors.New("invalid course")

// Course represents one university course in the corpus
type Course struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Credits     string `json:"credits" yaml:"credits"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

// Validate checks the fields every downstream consumer relies on
func (c Course) Validate() error {
	if c.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidCourse)
	}
	if strings.TrimSpace(c.Code) != c.Code {
		return fmt.Errorf("%w: code %q has surrounding whitespace", ErrInvalidCourse, c.Code)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: course %s has no name", ErrInvalidCourse, c.Code)
	}
	return nil
}

// MarkdownLink renders the course as a Markdown link, falling back to the bare name
func (c Course) MarkdownLink() string {
	if c.URL == "" {
		return c.Name
	}
	return fmt.Sprintf("[%s](%s)", c.Name, c.URL)
}

// EmbeddingText is the text a course is embedded from: its description, or
// its name when the description is empty
func (c Course) EmbeddingText() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Name
}
