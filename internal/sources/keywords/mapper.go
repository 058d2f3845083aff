package keywords

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
)

// Map converts a parsed file to keyword tables.
// Mood names go through domain.ParseMood; tag names lose a leading '#'.
// Blank and repeated keywords are dropped.
func Map(f File) (*recommend.KeywordTables, error) {
	tables := &recommend.KeywordTables{
		Moods: make(map[domain.Mood][]string, len(f.Moods)),
		Tags:  make(map[string][]string, len(f.Tags)),
	}

	for name, kws := range f.Moods {
		mood, err := domain.ParseMood(name)
		if err != nil {
			return nil, fmt.Errorf("keyword table: %w", err)
		}
		if clean := cleanKeywords(kws); len(clean) > 0 {
			tables.Moods[mood] = append(tables.Moods[mood], clean...)
		}
	}

	for name, kws := range f.Tags {
		tags := domain.NormalizeTags([]string{name})
		if len(tags) == 0 {
			continue
		}
		if clean := cleanKeywords(kws); len(clean) > 0 {
			tables.Tags[tags[0]] = clean
		}
	}
	return tables, nil
}

func cleanKeywords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
