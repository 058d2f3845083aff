package domain

import (
	"testing"
	"time"
)

func entriesWithMoods(moods ...Mood) []ActivityEntry {
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	out := make([]ActivityEntry, 0, len(moods))
	for i, m := range moods {
		out = append(out, ActivityEntry{
			ID:        string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Kind:      KindQuick,
			Mood:      m,
		})
	}
	return out
}

func TestEvaluateAchievements(t *testing.T) {
	tests := []struct {
		name    string
		entries []ActivityEntry
		want    []Badge
		notWant []Badge
	}{
		{
			name:    "empty log",
			entries: nil,
			notWant: []Badge{BadgeThreeDayEscape, BadgeEmotionalRange, BadgeRecordMaster, BadgeEarlyBird},
		},
		{
			name:    "two entries is not enough",
			entries: entriesWithMoods(MoodHappy, MoodCalm),
			notWant: []Badge{BadgeThreeDayEscape},
		},
		{
			name:    "exactly three entries",
			entries: entriesWithMoods(MoodHappy, MoodCalm, MoodCalm),
			want:    []Badge{BadgeThreeDayEscape},
			notWant: []Badge{BadgeRecordMaster, BadgeEmotionalRange},
		},
		{
			name:    "four distinct moods",
			entries: entriesWithMoods(MoodHappy, MoodCalm, MoodAngry, MoodSoSo),
			notWant: []Badge{BadgeEmotionalRange},
		},
		{
			name:    "exactly five distinct moods",
			entries: entriesWithMoods(MoodHappy, MoodCalm, MoodAngry, MoodSoSo, MoodDepressed),
			want:    []Badge{BadgeEmotionalRange, BadgeThreeDayEscape},
		},
		{
			name: "ten entries",
			entries: entriesWithMoods(MoodHappy, MoodHappy, MoodHappy, MoodHappy, MoodHappy,
				MoodHappy, MoodHappy, MoodHappy, MoodHappy, MoodHappy),
			want:    []Badge{BadgeRecordMaster, BadgeThreeDayEscape},
			notWant: []Badge{BadgeEmotionalRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAchievements(tt.entries, time.UTC)
			for _, b := range tt.want {
				if !got.Has(b) {
					t.Errorf("expected badge %s, got %v", b, got.List())
				}
			}
			for _, b := range tt.notWant {
				if got.Has(b) {
					t.Errorf("unexpected badge %s", b)
				}
			}
		})
	}
}

func TestEvaluateAchievementsCustomGlyphsCountOnce(t *testing.T) {
	entries := entriesWithMoods(MoodHappy, MoodCalm, MoodAngry, MoodCustom, MoodCustom)
	entries[3].MoodGlyph = "🌧"
	entries[4].MoodGlyph = "🔥"

	if EvaluateAchievements(entries, time.UTC).Has(BadgeEmotionalRange) {
		t.Error("two custom glyphs must count as a single mood")
	}
}

func TestEvaluateAchievementsEarlyBirdUsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 23:30 UTC is 08:30 the next morning in Seoul.
	entry := ActivityEntry{
		ID:        "x",
		CreatedAt: time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC),
		Mood:      MoodCalm,
	}

	if EvaluateAchievements([]ActivityEntry{entry}, time.UTC).Has(BadgeEarlyBird) {
		t.Error("23:30 UTC should not earn early bird in UTC")
	}
	if !EvaluateAchievements([]ActivityEntry{entry}, seoul).Has(BadgeEarlyBird) {
		t.Error("08:30 KST should earn early bird")
	}

	entry.CreatedAt = time.Date(2024, 5, 11, 0, 0, 0, 0, seoul).Add(9 * time.Hour)
	if EvaluateAchievements([]ActivityEntry{entry}, seoul).Has(BadgeEarlyBird) {
		t.Error("09:00 exactly must not earn early bird")
	}
}

func TestBadgeCatalogCoversBadges(t *testing.T) {
	for _, b := range []Badge{BadgeThreeDayEscape, BadgeEmotionalRange, BadgeRecordMaster, BadgeEarlyBird} {
		if _, ok := LookupBadge(b); !ok {
			t.Errorf("badge %s missing from catalog", b)
		}
	}
}
