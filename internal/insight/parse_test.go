package insight

import (
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", in: "Sure! {\"a\":{\"b\":2}} hope it helps", want: `{"a":{"b":2}}`},
		{name: "brace in string", in: `{"a":"}{"}`, want: `{"a":"}{"}`},
		{name: "no object", in: "nothing here", wantErr: true},
		{name: "unterminated", in: `{"a":1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("extractJSON(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("extractJSON(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseQuote(t *testing.T) {
	q, err := parseQuote(`{"quote": " hi ", "source": "Film", "reason": "r"}`)
	if err != nil {
		t.Fatalf("parseQuote failed: %v", err)
	}
	if q.Text != "hi" || q.Source != "Film" {
		t.Errorf("quote = %+v", q)
	}

	if _, err := parseQuote(`{"movie": "Film"}`); err == nil {
		t.Error("quote without text should fail")
	}
}

func TestParseAnalysisRejectsEmpty(t *testing.T) {
	if _, err := parseAnalysis(`{"tagEmotion": [], "overall": " "}`); err == nil {
		t.Error("empty analysis should fail")
	}
}

func TestOfflineQuoteAvoidsRecent(t *testing.T) {
	first := offlineQuote(domain.MoodCalm, nil)
	second := offlineQuote(domain.MoodCalm, []string{first.Text})
	if second.Text == first.Text {
		t.Error("offline quote repeated a recent one")
	}

	var all []string
	for _, q := range offlineQuotes {
		all = append(all, q.Text)
	}
	if got := offlineQuote(domain.MoodCalm, all); got.Text == "" {
		t.Error("an exhausted list must still yield a quote")
	}
}

func TestPushRecent(t *testing.T) {
	var recent []string
	for _, q := range []string{"a", "b", "a", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		recent = pushRecent(recent, q)
	}
	if len(recent) != RecentQuoteLimit {
		t.Fatalf("len = %d, want %d", len(recent), RecentQuoteLimit)
	}
	if recent[0] != "k" {
		t.Errorf("newest = %q, want k", recent[0])
	}
	seen := make(map[string]bool)
	for _, q := range recent {
		if seen[q] {
			t.Fatalf("duplicate %q in %v", q, recent)
		}
		seen[q] = true
	}
}
