package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

type promptEntry struct {
	Date  string   `json:"date"`
	Mood  string   `json:"mood"`
	Tags  []string `json:"tags,omitempty"`
	Music string   `json:"music,omitempty"`
}

func analysisPrompt(entries []domain.ActivityEntry) (string, error) {
	rows := make([]promptEntry, 0, len(entries))
	for _, e := range entries {
		row := promptEntry{
			Date: e.CreatedAt.Format("2006-01-02"),
			Mood: e.Mood.Label(),
			Tags: e.Tags,
		}
		if e.LinkedMedia != nil {
			row.Music = strings.TrimSpace(e.LinkedMedia.Name + " - " + e.LinkedMedia.Artist)
		}
		rows = append(rows, row)
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}

	return fmt.Sprintf(`다음은 사용자의 최근 일기 기록 데이터입니다 (JSON 형식):
%s

이 데이터를 분석하여 다음 3가지 항목에 대한 인사이트를 JSON 형식으로 제공해주세요.
응답은 오직 JSON 문자열만 반환해야 합니다.

1. tagEmotion: 태그와 감정의 상관관계 - 배열 형태
2. musicTaste: 감정과 음악의 관계 또는 음악 취향 - 배열 형태
3. overall: 전체적인 생활 패턴이나 조언 (한 문장)

응답 형식:
{"tagEmotion": ["..."], "musicTaste": ["..."], "overall": "..."}`, data), nil
}

func quotePrompt(mood domain.Mood, recent []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "오늘 사용자의 기분은 %q입니다. 이 기분에 어울리는 영화 명대사 하나를 골라주세요.\n", mood.Label())
	if len(recent) > 0 {
		b.WriteString("다음 대사들은 최근에 이미 보여주었으니 제외하세요:\n")
		for _, q := range recent {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString(`응답은 오직 JSON 문자열만 반환하세요: {"quote": "대사", "movie": "영화 제목", "reason": "추천 이유 한 문장"}`)
	return b.String()
}
