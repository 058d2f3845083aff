package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

func TestDefaultTables(t *testing.T) {
	tables, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	for _, m := range domain.Moods() {
		if len(tables.Moods[m]) == 0 {
			t.Errorf("no keywords for mood %s", m)
		}
	}
	for _, tag := range domain.PredefinedTags {
		if len(tables.Tags[tag]) == 0 {
			t.Errorf("no keywords for predefined tag %s", tag)
		}
	}
}

func TestLoaderOverride(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "keywords.yaml")

	content := `
moods:
  calm: ["ambient", "ambient", " "]
tags:
  "#산책": ["walk"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tables, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := tables.Moods[domain.MoodCalm]; len(got) != 1 || got[0] != "ambient" {
		t.Errorf("calm keywords = %v, want [ambient]", got)
	}
	if len(tables.Moods[domain.MoodHappy]) == 0 {
		t.Error("rows not in the override must keep their defaults")
	}
	if got := tables.Tags["산책"]; len(got) != 1 || got[0] != "walk" {
		t.Errorf("산책 keywords = %v", got)
	}
}

func TestLoaderErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "invalid yaml", content: "moods: [unterminated"},
		{name: "unknown mood", content: "moods:\n  sleepy: [\"zzz\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".yaml")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("failed to write file: %v", err)
				}
			}
			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
