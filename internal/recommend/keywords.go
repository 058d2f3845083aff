package recommend

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

// KeywordTables maps moods and tags to search keywords.
type KeywordTables struct {
	Moods map[domain.Mood][]string `yaml:"moods" json:"moods"`
	Tags  map[string][]string      `yaml:"tags" json:"tags"`
}

// Validate checks that every fixed mood has at least one keyword.
func (t *KeywordTables) Validate() error {
	if t == nil {
		return fmt.Errorf("keyword tables are nil")
	}
	for _, m := range domain.Moods() {
		if m == domain.MoodCustom {
			continue
		}
		if len(nonBlank(t.Moods[m])) == 0 {
			return fmt.Errorf("no keywords for mood %q", m)
		}
	}
	return nil
}

// Counts returns the number of mood and tag rows.
func (t *KeywordTables) Counts() (moods, tags int) {
	if t == nil {
		return 0, 0
	}
	return len(t.Moods), len(t.Tags)
}

// picker returns a pseudo-random index in [0, n).
type picker func(n int) int

// buildQuery combines a mood keyword with an optional tag keyword.
// The tag keyword is wrapped in a track filter when it is written in Latin
// script.
func buildQuery(tables *KeywordTables, mood domain.Mood, tags []string, pick picker) string {
	moodKw := mood.Label()
	if tables != nil {
		if kws := nonBlank(tables.Moods[mood]); len(kws) > 0 {
			moodKw = kws[pick(len(kws))]
		}
	}

	if len(tags) == 0 {
		return moodKw
	}

	tag := tags[pick(len(tags))]
	tagKw := tag
	if tables != nil {
		if kws := nonBlank(tables.Tags[tag]); len(kws) > 0 {
			tagKw = kws[pick(len(kws))]
		}
	}

	if isLatin(tagKw) {
		return fmt.Sprintf(`%s track:"%s"`, moodKw, strings.ReplaceAll(tagKw, `"`, ""))
	}
	return moodKw + " " + tagKw
}

// offlineKeywords is the fallback query when no generator answer is available.
func offlineKeywords(mood domain.Mood, tags []string) string {
	return strings.TrimSpace(mood.Label() + " " + strings.Join(tags, " "))
}

const maxFallbackKeywords = 2

// parseKeywordReply turns a comma separated generator reply into a query.
func parseKeywordReply(reply string) string {
	reply = stripFences(reply)
	reply = strings.NewReplacer("\n", ",", "、", ",", "'", "", `"`, "").Replace(reply)

	var kws []string
	for _, part := range strings.Split(reply, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kws = append(kws, part)
		if len(kws) == maxFallbackKeywords {
			break
		}
	}
	return strings.Join(kws, " ")
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// isLatin reports whether every letter in s is Latin script.
func isLatin(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.Is(unicode.Latin, r) {
				return false
			}
			letters++
		}
	}
	return letters > 0
}

func nonBlank(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
