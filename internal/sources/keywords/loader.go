// Package keywords loads the recommendation keyword tables from YAML.
package keywords

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/harunode/internal/recommend"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Loader reads the built-in tables and an optional override file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader. An empty filePath loads the built-in tables only.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the override file path.
func (l *Loader) Path() string {
	return l.filePath
}

// Load parses the built-in tables, merges the override file on top and
// validates the result.
func (l *Loader) Load() (*recommend.KeywordTables, error) {
	base, err := parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in keywords: %w", err)
	}

	if l.filePath != "" {
		data, err := os.ReadFile(l.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyword file: %w", err)
		}
		override, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse keyword file: %w", err)
		}
		base = merge(base, override)
	}

	tables, err := Map(base)
	if err != nil {
		return nil, err
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keyword tables: %w", err)
	}
	return tables, nil
}

// Default returns the built-in tables.
func Default() (*recommend.KeywordTables, error) {
	return NewLoader("").Load()
}

func parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// merge replaces rows of base with the rows defined in override.
func merge(base, override File) File {
	out := File{
		Moods: make(map[string][]string, len(base.Moods)+len(override.Moods)),
		Tags:  make(map[string][]string, len(base.Tags)+len(override.Tags)),
	}
	for k, v := range base.Moods {
		out.Moods[k] = v
	}
	for k, v := range override.Moods {
		out.Moods[k] = v
	}
	for k, v := range base.Tags {
		out.Tags[k] = v
	}
	for k, v := range override.Tags {
		out.Tags[k] = v
	}
	return out
}
