// ABOUTME: Loads scraped course records from CSV into validated Course values
// ABOUTME: Accepts both scraper column names and the prepared corpus column names
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/course-recommender/internal/models"
)

// column aliases, first match wins
var columnAliases = map[string][]string{
	"code":        {"code", "course_code"},
	"name":        {"name", "course_name"},
	"credits":     {"credits"},
	"description": {"description", "course_description_en", "course_description"},
	"url":         {"url"},
	"course_info": {"course_info"},
}

var requiredColumns = []string{"code", "name"}

// LoadCSVFile opens path and calls LoadCSV
func LoadCSVFile(path string) ([]models.Course, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadCSV(f)
}

// LoadCSV reads courses from CSV with a header row. When the description
// column is missing or blank, the description is built from course_info.
func LoadCSV(r io.Reader) ([]models.Course, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("corpus CSV is empty")
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := resolveColumns(header)
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("corpus CSV missing required column(s): %s", strings.Join(missing, ", "))
	}

	var courses []models.Course
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		course, err := courseFromRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func resolveColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	cols := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func courseFromRecord(record []string, cols map[string]int) (models.Course, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	course := models.Course{
		Code:        get("code"),
		Name:        get("name"),
		Credits:     get("credits"),
		Description: get("description"),
		URL:         get("url"),
	}

	if course.Description == "" {
		if raw := get("course_info"); raw != "" {
			sections, err := ParseCourseInfo(raw)
			if err != nil {
				return models.Course{}, fmt.Errorf("course %s: %w", course.Code, err)
			}
			course.Description = ConcatCourseInfo(course.Name, sections)
		}
	}

	if err := course.Validate(); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// Dedupe keeps the first course for each code and returns the dropped codes
func Dedupe(courses []models.Course) ([]models.Course, []string) {
	seen := make(map[string]bool, len(courses))
	kept := make([]models.Course, 0, len(courses))
	var dropped []string
	for _, c := range courses {
		if seen[c.Code] {
			dropped = append(dropped, c.Code)
			continue
		}
		seen[c.Code] = true
		kept = append(kept, c)
	}
	return kept, dropped
}
