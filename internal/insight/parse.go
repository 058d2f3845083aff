package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

var errNoJSON = errors.New("no JSON object in reply")

// extractJSON strips markdown fences and returns the first balanced JSON object.
func extractJSON(reply string) (string, error) {
	s := strings.ReplaceAll(reply, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errNoJSON
}

type analysisReply struct {
	TagEmotion []string `json:"tagEmotion"`
	MusicTaste []string `json:"musicTaste"`
	Overall    string   `json:"overall"`
}

// parseAnalysis decodes an analysis reply. A reply without any observation
// is rejected.
func parseAnalysis(reply string) (analysisReply, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return analysisReply{}, err
	}
	var out analysisReply
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return analysisReply{}, fmt.Errorf("failed to decode analysis: %w", err)
	}
	out.TagEmotion = trimAll(out.TagEmotion)
	out.MusicTaste = trimAll(out.MusicTaste)
	out.Overall = strings.TrimSpace(out.Overall)
	if len(out.TagEmotion) == 0 && len(out.MusicTaste) == 0 && out.Overall == "" {
		return analysisReply{}, errors.New("analysis reply is empty")
	}
	return out, nil
}

type quoteReply struct {
	Quote  string `json:"quote"`
	Movie  string `json:"movie"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// parseQuote decodes a quote reply; the quote text is mandatory.
func parseQuote(reply string) (*domain.Quote, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}
	var out quoteReply
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	text := strings.TrimSpace(out.Quote)
	if text == "" {
		return nil, errors.New("quote reply has no quote")
	}
	source := strings.TrimSpace(out.Movie)
	if source == "" {
		source = strings.TrimSpace(out.Source)
	}
	return &domain.Quote{
		Text:   text,
		Source: source,
		Reason: strings.TrimSpace(out.Reason),
	}, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
