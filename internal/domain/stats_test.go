package domain

import (
	"testing"
	"time"
)

func TestMostFrequentMood(t *testing.T) {
	tests := []struct {
		name   string
		moods  []Mood
		want   Mood
		wantOK bool
	}{
		{name: "empty", moods: nil, wantOK: false},
		{name: "single winner", moods: []Mood{MoodCalm, MoodAngry, MoodCalm}, want: MoodCalm, wantOK: true},
		{name: "tie uses display order", moods: []Mood{MoodAngry, MoodHappy}, want: MoodHappy, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MostFrequentMood(entriesWithMoods(tt.moods...))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MostFrequentMood() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEntriesOnDay(t *testing.T) {
	entries := []ActivityEntry{
		{ID: "1", CreatedAt: time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC), Mood: MoodCalm},
		{ID: "2", CreatedAt: time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC), Mood: MoodHappy},
		{ID: "3", CreatedAt: time.Date(2024, 5, 11, 2, 0, 0, 0, time.UTC), Mood: MoodAngry},
	}

	got := EntriesOnDay(entries, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), time.UTC)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("EntriesOnDay = %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	entries := entriesWithMoods(MoodCalm, MoodCalm, MoodHappy)
	entries[0].Tags = []string{"일", "친구"}
	entries[1].Tags = []string{"친구"}

	st := Summarize(entries)
	if st.Total != 3 || st.TopMood != MoodCalm {
		t.Errorf("Summarize = %+v", st)
	}
	if len(st.TopTags) != 2 || st.TopTags[0] != "친구" {
		t.Errorf("TopTags = %v", st.TopTags)
	}
}

func TestFingerprintOf(t *testing.T) {
	if fp := FingerprintOf(nil); fp.Count != 0 || !fp.Latest.IsZero() {
		t.Errorf("FingerprintOf(nil) = %+v", fp)
	}
	entries := entriesWithMoods(MoodCalm, MoodHappy)
	fp := FingerprintOf(entries)
	if fp.Count != 2 || !fp.Latest.Equal(entries[1].CreatedAt) {
		t.Errorf("FingerprintOf = %+v", fp)
	}
}
