package domain

import (
	"fmt"
	"strings"
)

// Mood is the fixed mood category of an entry.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodExcited   Mood = "excited"
	MoodCalm      Mood = "calm"
	MoodSoSo      Mood = "soso"
	MoodDepressed Mood = "depressed"
	MoodAngry     Mood = "angry"
	// MoodCustom carries a user-chosen glyph in ActivityEntry.MoodGlyph.
	MoodCustom Mood = "custom"
)

// DefaultCustomGlyph is shown for a custom mood without a chosen glyph.
const DefaultCustomGlyph = "💡"

type moodInfo struct {
	label string
	glyph string
}

var moodTable = map[Mood]moodInfo{
	MoodHappy:     {label: "행복", glyph: "😊"},
	MoodExcited:   {label: "신남", glyph: "🥳"},
	MoodCalm:      {label: "편안", glyph: "😌"},
	MoodSoSo:      {label: "그저", glyph: "😐"},
	MoodDepressed: {label: "우울", glyph: "😔"},
	MoodAngry:     {label: "화남", glyph: "😡"},
	MoodCustom:    {label: "기타", glyph: DefaultCustomGlyph},
}

// Moods lists every mood in display order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodExcited, MoodCalm, MoodSoSo, MoodDepressed, MoodAngry, MoodCustom}
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := moodTable[m]
	return ok
}

// Label returns the display label, or the raw value for unknown moods.
func (m Mood) Label() string {
	if info, ok := moodTable[m]; ok {
		return info.label
	}
	return string(m)
}

// Glyph returns the canonical glyph of a fixed mood.
func (m Mood) Glyph() string {
	return moodTable[m].glyph
}

// ParseMood accepts a mood id, case-insensitively. "etc" is an alias of custom.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if m == "etc" {
		return MoodCustom, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown mood %q", ErrInvalidEntry, s)
	}
	return m, nil
}
