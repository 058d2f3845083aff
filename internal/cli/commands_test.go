package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/app"
	"github.com/MrSnakeDoc/harunode/internal/config"
	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
)

func testCore(t *testing.T) (*app.Core, opener) {
	t.Helper()
	cfg := &config.Config{
		StoreBackend:        config.BackendMemory,
		Location:            time.UTC,
		CollaboratorTimeout: time.Second,
	}
	core, err := app.OpenCore(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("OpenCore() error = %v", err)
	}
	return core, func(context.Context) (*app.Core, func(), error) {
		return core, func() {}, nil
	}
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	cmd := newRoot(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	core, open := testCore(t)

	out, err := run(t, open, "add", "calm", "산책하고", "왔다", "--tag", "#휴식")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "편안") || !strings.Contains(out, "#휴식") {
		t.Errorf("add output missing mood or tag:\n%s", out)
	}

	if _, err := run(t, open, "add", "grumpy"); err == nil {
		t.Error("expected an error for an unknown mood")
	}
	if _, err := run(t, open, "add", "custom"); err == nil {
		t.Error("expected an error for a custom mood without glyph")
	}
	if core.Journal.Len() != 1 {
		t.Fatalf("journal has %d entries, want 1", core.Journal.Len())
	}

	out, err = run(t, open, "entries")
	if err != nil {
		t.Fatalf("entries error = %v", err)
	}
	if !strings.Contains(out, "1 entry") || !strings.Contains(out, "산책하고 왔다") {
		t.Errorf("entries output:\n%s", out)
	}

	if _, err := run(t, open, "entries", "--on", "yesterday"); err == nil {
		t.Error("expected an error for a malformed --on date")
	}
}

func TestSeedAndBadges(t *testing.T) {
	core, open := testCore(t)

	out, err := run(t, open, "seed", "--count", "4")
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}
	if !strings.Contains(out, "4 demo entries added") {
		t.Errorf("seed output: %s", out)
	}
	if !core.Journal.Achievements().Has(domain.BadgeThreeDayEscape) {
		t.Error("four entries should earn the three-day badge")
	}

	out, err = run(t, open, "badges")
	if err != nil {
		t.Fatalf("badges error = %v", err)
	}
	if !strings.Contains(out, "작심삼일 탈출") || !strings.Contains(out, "기록 마스터") {
		t.Errorf("badges output should list the whole catalog:\n%s", out)
	}

	if _, err := run(t, open, "stats"); err != nil {
		t.Errorf("stats error = %v", err)
	}
	if _, err := run(t, open, "seed", "--count", "0"); err == nil {
		t.Error("expected an error for --count 0")
	}
}

func TestExportImport(t *testing.T) {
	src, srcOpen := testCore(t)
	if _, err := run(t, srcOpen, "seed", "--count", "3"); err != nil {
		t.Fatalf("seed error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	if _, err := run(t, srcOpen, "export", "--out", path); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var exported []domain.ActivityEntry
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(exported) != src.Journal.Len() {
		t.Fatalf("exported %d entries, want %d", len(exported), src.Journal.Len())
	}

	dst, dstOpen := testCore(t)
	out, err := run(t, dstOpen, "import", path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "3 added") {
		t.Errorf("import output: %s", out)
	}

	out, err = run(t, dstOpen, "import", path)
	if err != nil {
		t.Fatalf("second import error = %v", err)
	}
	if !strings.Contains(out, "0 added") || dst.Journal.Len() != 3 {
		t.Errorf("second import should add nothing: %s (len %d)", out, dst.Journal.Len())
	}
}

func TestSeedEntries(t *testing.T) {
	now := time.Date(2025, 5, 10, 20, 0, 0, 0, time.UTC)
	entries := seedEntries(7, now, rand.New(rand.NewPCG(1, 2)))

	if len(entries) != 7 {
		t.Fatalf("len = %d, want 7", len(entries))
	}
	seen := make(map[string]bool)
	for i, e := range entries {
		if want := now.AddDate(0, 0, -i); !e.CreatedAt.Equal(want) {
			t.Errorf("entry %d CreatedAt = %v, want %v", i, e.CreatedAt, want)
		}
		if e.Mood == domain.MoodCustom || !e.Mood.Valid() {
			t.Errorf("entry %d mood = %q", i, e.Mood)
		}
		if err := e.Validate(); err != nil {
			t.Errorf("entry %d invalid: %v", i, err)
		}
		if seen[e.ID] {
			t.Errorf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
