package recommend

import (
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

func firstPick(int) int { return 0 }

func TestBuildQuery(t *testing.T) {
	tables := &KeywordTables{
		Moods: map[domain.Mood][]string{
			domain.MoodHappy: {"신나는 팝", "upbeat"},
		},
		Tags: map[string][]string{
			"운동": {"workout"},
			"공부": {"집중"},
		},
	}

	tests := []struct {
		name string
		mood domain.Mood
		tags []string
		want string
	}{
		{name: "mood only", mood: domain.MoodHappy, want: "신나는 팝"},
		{name: "latin tag keyword gets track filter", mood: domain.MoodHappy, tags: []string{"운동"}, want: `신나는 팝 track:"workout"`},
		{name: "hangul tag keyword is appended", mood: domain.MoodHappy, tags: []string{"공부"}, want: "신나는 팝 집중"},
		{name: "unknown tag falls back to raw text", mood: domain.MoodHappy, tags: []string{"산책"}, want: "신나는 팝 산책"},
		{name: "missing mood row uses label", mood: domain.MoodAngry, want: "화남"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tables, tt.mood, tt.tags, firstPick); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKeywordReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "plain list", reply: "신나는 팝, 댄스, 활기찬", want: "신나는 팝 댄스"},
		{name: "fenced", reply: "```\nlofi, chill\n```", want: "lofi chill"},
		{name: "quoted", reply: "'jazz'", want: "jazz"},
		{name: "empty", reply: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseKeywordReply(tt.reply); got != tt.want {
				t.Errorf("parseKeywordReply(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

func TestIsLatin(t *testing.T) {
	tests := map[string]bool{
		"workout":    true,
		"lo-fi 2024": true,
		"운동":         false,
		"k-pop 댄스":   false,
		"123":        false,
	}
	for in, want := range tests {
		if got := isLatin(in); got != want {
			t.Errorf("isLatin(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKeywordTablesValidate(t *testing.T) {
	tables := &KeywordTables{Moods: map[domain.Mood][]string{}}
	if err := tables.Validate(); err == nil {
		t.Error("empty tables should fail validation")
	}

	for _, m := range domain.Moods() {
		tables.Moods[m] = []string{"kw"}
	}
	if err := tables.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestOfflineKeywords(t *testing.T) {
	if got := offlineKeywords(domain.MoodCalm, []string{"휴식", "가족"}); got != "편안 휴식 가족" {
		t.Errorf("offlineKeywords = %q", got)
	}
}
