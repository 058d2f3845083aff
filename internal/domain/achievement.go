package domain

import (
	"sort"
	"time"
)

// Badge identifies an achievement.
type Badge string

const (
	BadgeThreeDayEscape Badge = "three_day_escape"
	BadgeEmotionalRange Badge = "emotional_range"
	BadgeRecordMaster   Badge = "record_master"
	BadgeEarlyBird      Badge = "early_bird"
)

const (
	threeDayEscapeMinEntries = 3
	emotionalRangeMinMoods   = 5
	recordMasterMinEntries   = 10
	earlyBirdBeforeHour      = 9
)

// BadgeInfo is the display metadata of a badge.
type BadgeInfo struct {
	ID          Badge  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BadgeCatalog lists every badge in display order.
var BadgeCatalog = []BadgeInfo{
	{ID: BadgeThreeDayEscape, Title: "작심삼일 탈출", Description: "일기를 3개 이상 작성했어요."},
	{ID: BadgeEmotionalRange, Title: "감정 표현가", Description: "5가지 이상의 다양한 감정을 기록했어요."},
	{ID: BadgeRecordMaster, Title: "기록 마스터", Description: "총 10개 이상의 일기를 작성했어요."},
	{ID: BadgeEarlyBird, Title: "얼리 버드", Description: "오전 9시 이전에 일기를 작성했어요."},
}

// LookupBadge returns the catalog entry for id.
func LookupBadge(id Badge) (BadgeInfo, bool) {
	for _, info := range BadgeCatalog {
		if info.ID == id {
			return info, true
		}
	}
	return BadgeInfo{}, false
}

// AchievementSet is a set of earned badges.
type AchievementSet map[Badge]struct{}

// Has reports whether b was earned.
func (s AchievementSet) Has(b Badge) bool {
	_, ok := s[b]
	return ok
}

// List returns the earned badges sorted by id.
func (s AchievementSet) List() []Badge {
	out := make([]Badge, 0, len(s))
	for b := range s {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EvaluateAchievements derives the badge set from the full log.
// Each rule is evaluated independently; loc is used for the local hour
// (nil means time.Local).
func EvaluateAchievements(entries []ActivityEntry, loc *time.Location) AchievementSet {
	if loc == nil {
		loc = time.Local
	}

	set := make(AchievementSet)
	if len(entries) >= threeDayEscapeMinEntries {
		set[BadgeThreeDayEscape] = struct{}{}
	}
	if len(entries) >= recordMasterMinEntries {
		set[BadgeRecordMaster] = struct{}{}
	}

	moods := make(map[Mood]struct{}, len(moodTable))
	earlyBird := false
	for _, e := range entries {
		// Custom glyphs all count as the single custom category.
		moods[e.Mood] = struct{}{}
		if !earlyBird && e.CreatedAt.In(loc).Hour() < earlyBirdBeforeHour {
			earlyBird = true
		}
	}
	if len(moods) >= emotionalRangeMinMoods {
		set[BadgeEmotionalRange] = struct{}{}
	}
	if earlyBird {
		set[BadgeEarlyBird] = struct{}{}
	}
	return set
}
