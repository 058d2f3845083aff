package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "blank only", in: []string{"", "  ", "#"}, want: nil},
		{name: "strip hash and dedupe", in: []string{"#운동", "운동", " 친구 ", "#친구"}, want: []string{"운동", "친구"}},
		{name: "keeps order", in: []string{"b", "a", "c"}, want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   ActivityEntry
		wantErr bool
	}{
		{name: "defaults are valid", entry: ActivityEntry{Mood: MoodHappy}},
		{name: "etc alias", entry: ActivityEntry{Mood: "etc", MoodGlyph: "🌱"}},
		{name: "unknown mood", entry: ActivityEntry{Mood: "sleepy"}, wantErr: true},
		{name: "custom without glyph", entry: ActivityEntry{Mood: MoodCustom}, wantErr: true},
		{name: "unknown kind", entry: ActivityEntry{Kind: "poem", Mood: MoodCalm}, wantErr: true},
		{name: "media without id", entry: ActivityEntry{Mood: MoodCalm, LinkedMedia: &CatalogItem{Name: "x"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			e.Normalize()
			err := e.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntry) {
					t.Errorf("Validate() = %v, want ErrInvalidEntry", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestNormalizeDropsGlyphForFixedMood(t *testing.T) {
	e := ActivityEntry{Mood: MoodHappy, MoodGlyph: "🌱"}
	e.Normalize()
	if e.MoodGlyph != "" {
		t.Errorf("MoodGlyph = %q, want empty for fixed mood", e.MoodGlyph)
	}
	if e.Kind != KindQuick {
		t.Errorf("Kind = %q, want quick", e.Kind)
	}
	if e.Glyph() != "😊" {
		t.Errorf("Glyph() = %q", e.Glyph())
	}
}

func TestPatchApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	orig := ActivityEntry{
		ID:          "id-1",
		CreatedAt:   created,
		Kind:        KindQuick,
		Mood:        MoodCalm,
		Tags:        []string{"일"},
		LinkedMedia: &CatalogItem{ID: "track-1"},
	}

	note := "long day"
	mood := MoodDepressed
	tags := []string{"휴식"}
	got := EntryPatch{Note: &note, Mood: &mood, Tags: &tags, ClearMedia: true}.Apply(orig)

	if got.ID != orig.ID || !got.CreatedAt.Equal(created) {
		t.Fatalf("identity changed: %+v", got)
	}
	if got.Note != note || got.Mood != mood || !reflect.DeepEqual(got.Tags, tags) {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.LinkedMedia != nil {
		t.Errorf("LinkedMedia = %+v, want cleared", got.LinkedMedia)
	}
	if orig.Note != "" || orig.Mood != MoodCalm {
		t.Errorf("original mutated: %+v", orig)
	}
}
