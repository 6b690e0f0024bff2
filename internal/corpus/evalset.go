// ABOUTME: Loads labeled evaluation sets from JSON or YAML
// ABOUTME: Format is {"queries": [{"query": ..., "answers": [codes...]}]}
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/course-recommender/internal/models"
)

// LoadEvalSet reads an evaluation set, choosing YAML for .yaml/.yml files and JSON otherwise
func LoadEvalSet(path string) ([]models.LabeledQuery, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("opening eval set: %w", err)
	}
	defer func() { _ = f.Close() }()

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return ParseEvalSet(f, format)
}

// ParseEvalSet decodes and validates an evaluation set in the given format
func ParseEvalSet(r io.Reader, format string) ([]models.LabeledQuery, error) {
	var set models.EvalSet

	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&set); err != nil {
			return nil, fmt.Errorf("decoding JSON eval set: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&set); err != nil {
			return nil, fmt.Errorf("decoding YAML eval set: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown eval set format %q", format)
	}

	if len(set.Queries) == 0 {
		return nil, errors.New("eval set has no queries")
	}
	for i, q := range set.Queries {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("eval set query %d: %w", i, err)
		}
	}
	return set.Queries, nil
}
