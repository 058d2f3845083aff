package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
)

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// TestDiaryScenario drives the whole offline stack through the HTTP API on a
// disk store, then reopens the store and checks what survived.
func TestDiaryScenario(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("disk", t.TempDir())

	core, err := OpenCore(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("OpenCore() error = %v", err)
	}
	h := New(cfg, logger.Nop(), core).Handler()

	for _, body := range []string{
		`{"mood":"happy","tags":["운동"]}`,
		`{"mood":"calm","note":"산책"}`,
		`{"kind":"diary","mood":"custom","mood_glyph":"🫠","title":"긴 하루"}`,
	} {
		if w := serve(t, h, http.MethodPost, "/api/entries", body); w.Code != http.StatusCreated {
			t.Fatalf("POST %s status = %d, body %s", body, w.Code, w.Body.String())
		}
	}

	t.Run("badge earned", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/api/achievements", "")
		var got struct {
			Earned []domain.Badge `json:"earned"`
		}
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		found := false
		for _, b := range got.Earned {
			if b == domain.BadgeThreeDayEscape {
				found = true
			}
		}
		if !found {
			t.Errorf("earned = %v, want %s", got.Earned, domain.BadgeThreeDayEscape)
		}
	})

	t.Run("recommendations degrade without catalog", func(t *testing.T) {
		w := serve(t, h, http.MethodPost, "/api/recommendations", `{"mood":"calm","tags":["산책"]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var got struct {
			SessionID string         `json:"session_id"`
			Tier      recommend.Tier `json:"tier"`
			Items     []any          `json:"items"`
		}
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if got.SessionID == "" {
			t.Error("no session id returned")
		}
		if got.Tier != recommend.TierNone || len(got.Items) != 0 {
			t.Errorf("tier = %s, items = %d, want none and empty", got.Tier, len(got.Items))
		}
	})

	t.Run("insight computed offline then cached", func(t *testing.T) {
		var cached []bool
		for range 2 {
			w := serve(t, h, http.MethodGet, "/api/insights", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			var got struct {
				Cached bool `json:"cached"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			cached = append(cached, got.Cached)
		}
		if cached[0] || !cached[1] {
			t.Errorf("cached = %v, want [false true]", cached)
		}
	})

	if err := core.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenCore(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	if got := reopened.Journal.Len(); got != 3 {
		t.Errorf("entries after reopen = %d, want 3", got)
	}
	if !reopened.Journal.Achievements().Has(domain.BadgeThreeDayEscape) {
		t.Error("badge not recomputed after reopen")
	}
}
