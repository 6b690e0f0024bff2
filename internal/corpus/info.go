// ABOUTME: Parses scraped course_info sections and flattens them into descriptions
// ABOUTME: Section order from the page is preserved; additional info is skipped
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SkippedSection is the "additional information" section left out of descriptions
const SkippedSection = "LISÄTIEDOT"

// Section is one titled block of a course page
type Section struct {
	Title      string
	Paragraphs []string
}

// ParseCourseInfo decodes a JSON object of section title to paragraphs
// (a list of strings, or a single string) without losing key order.
func ParseCourseInfo(raw string) ([]Section, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing course_info: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("parsing course_info: expected a JSON object")
	}

	var sections []Section
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing course_info key: %w", err)
		}
		title, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("parsing course_info section %q: %w", title, err)
		}

		paragraphs, err := decodeParagraphs(value)
		if err != nil {
			return nil, fmt.Errorf("parsing course_info section %q: %w", title, err)
		}
		sections = append(sections, Section{Title: title, Paragraphs: paragraphs})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing course_info: %w", err)
	}
	return sections, nil
}

func decodeParagraphs(value json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(value, &single); err != nil {
		return nil, errors.New("section must be a string or a list of strings")
	}
	return []string{single}, nil
}

// ConcatCourseInfo builds "<name>. " followed by every section's paragraphs
// joined by spaces. Sections are appended back to back and SkippedSection is omitted.
func ConcatCourseInfo(name string, sections []Section) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(". ")
	for _, s := range sections {
		if s.Title == SkippedSection {
			continue
		}
		b.WriteString(strings.Join(s.Paragraphs, " "))
	}
	return b.String()
}
