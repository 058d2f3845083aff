package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEntry is wrapped by every validation failure at the log boundary.
var ErrInvalidEntry = errors.New("invalid entry")

// EntryKind distinguishes a quick mood check-in from a long-form diary entry.
type EntryKind string

const (
	KindQuick EntryKind = "quick"
	KindDiary EntryKind = "diary"
)

const (
	maxTags      = 20
	maxTagLength = 32
)

// ActivityEntry is one logged mood or diary record.
//
// ID and CreatedAt are assigned by the log and never change afterwards.
type ActivityEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Kind EntryKind `json:"kind"`

	// Mood is one of the fixed categories.
	// MoodGlyph is only meaningful when Mood is MoodCustom.
	Mood      Mood   `json:"mood"`
	MoodGlyph string `json:"mood_glyph,omitempty"`

	// Tags keep insertion order for display.
	Tags []string `json:"tags,omitempty"`

	Title string `json:"title,omitempty"`
	Note  string `json:"note,omitempty"`

	LinkedMedia *CatalogItem `json:"linked_media,omitempty"`

	// ThemeColor has no effect outside rendering.
	ThemeColor string `json:"theme_color,omitempty"`
}

// Glyph returns the glyph to display for the entry's mood.
func (e ActivityEntry) Glyph() string {
	if e.Mood == MoodCustom && e.MoodGlyph != "" {
		return e.MoodGlyph
	}
	return e.Mood.Glyph()
}

// MediaID returns the linked catalog item id, or "".
func (e ActivityEntry) MediaID() string {
	if e.LinkedMedia == nil {
		return ""
	}
	return e.LinkedMedia.ID
}

// EntryDraft is the caller-supplied part of a new entry.
type EntryDraft struct {
	Kind        EntryKind    `json:"kind"`
	Mood        Mood         `json:"mood"`
	MoodGlyph   string       `json:"mood_glyph,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Title       string       `json:"title,omitempty"`
	Note        string       `json:"note,omitempty"`
	LinkedMedia *CatalogItem `json:"linked_media,omitempty"`
	ThemeColor  string       `json:"theme_color,omitempty"`
}

// Entry builds an unidentified entry from the draft.
func (d EntryDraft) Entry() ActivityEntry {
	return ActivityEntry{
		Kind:        d.Kind,
		Mood:        d.Mood,
		MoodGlyph:   d.MoodGlyph,
		Tags:        d.Tags,
		Title:       d.Title,
		Note:        d.Note,
		LinkedMedia: d.LinkedMedia,
		ThemeColor:  d.ThemeColor,
	}
}

// EntryPatch is a partial update. Nil fields are left untouched.
// ClearMedia removes the linked item.
type EntryPatch struct {
	Kind        *EntryKind   `json:"kind,omitempty"`
	Mood        *Mood        `json:"mood,omitempty"`
	MoodGlyph   *string      `json:"mood_glyph,omitempty"`
	Tags        *[]string    `json:"tags,omitempty"`
	Title       *string      `json:"title,omitempty"`
	Note        *string      `json:"note,omitempty"`
	LinkedMedia *CatalogItem `json:"linked_media,omitempty"`
	ClearMedia  bool         `json:"clear_media,omitempty"`
	ThemeColor  *string      `json:"theme_color,omitempty"`
}

// Apply returns a copy of e with the patch merged in. ID and CreatedAt are kept.
func (p EntryPatch) Apply(e ActivityEntry) ActivityEntry {
	out := e
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.Mood != nil {
		out.Mood = *p.Mood
	}
	if p.MoodGlyph != nil {
		out.MoodGlyph = *p.MoodGlyph
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Note != nil {
		out.Note = *p.Note
	}
	if p.ClearMedia {
		out.LinkedMedia = nil
	}
	if p.LinkedMedia != nil {
		media := *p.LinkedMedia
		out.LinkedMedia = &media
	}
	if p.ThemeColor != nil {
		out.ThemeColor = *p.ThemeColor
	}
	out.ID = e.ID
	out.CreatedAt = e.CreatedAt
	return out
}

// Normalize applies the defaulting rules in place:
// kind defaults to quick, tags are cleaned, free text is trimmed and the
// glyph is dropped for fixed moods.
func (e *ActivityEntry) Normalize() {
	if e.Kind == "" {
		e.Kind = KindQuick
	}
	if m, err := ParseMood(string(e.Mood)); err == nil {
		e.Mood = m
	}
	e.MoodGlyph = strings.TrimSpace(e.MoodGlyph)
	if e.Mood != MoodCustom {
		e.MoodGlyph = ""
	}
	e.Tags = NormalizeTags(e.Tags)
	e.Title = strings.TrimSpace(e.Title)
	e.Note = strings.TrimSpace(e.Note)
	e.ThemeColor = strings.TrimSpace(e.ThemeColor)
}

// Validate checks a normalized entry. Identity fields are not checked.
func (e ActivityEntry) Validate() error {
	switch e.Kind {
	case KindQuick, KindDiary:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, e.Kind)
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", ErrInvalidEntry, e.Mood)
	}
	if e.Mood == MoodCustom && e.MoodGlyph == "" {
		return fmt.Errorf("%w: custom mood requires a glyph", ErrInvalidEntry)
	}
	if len(e.Tags) > maxTags {
		return fmt.Errorf("%w: at most %d tags, got %d", ErrInvalidEntry, maxTags, len(e.Tags))
	}
	for _, tag := range e.Tags {
		if len([]rune(tag)) > maxTagLength {
			return fmt.Errorf("%w: tag %q longer than %d characters", ErrInvalidEntry, tag, maxTagLength)
		}
	}
	if e.LinkedMedia != nil && strings.TrimSpace(e.LinkedMedia.ID) == "" {
		return fmt.Errorf("%w: linked media without id", ErrInvalidEntry)
	}
	return nil
}

// NormalizeTags strips a leading '#', trims blanks and drops duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// PredefinedTags are the tags offered by default in the entry form.
var PredefinedTags = []string{"운동", "음식", "휴식", "일", "친구", "가족", "취미", "공부"}
