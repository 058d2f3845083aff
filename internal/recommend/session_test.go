package recommend

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

func advanceTo(s *Session, ordinal int) {
	for s.Ordinal() < ordinal {
		s.Advance(time.Now())
	}
}

func TestSessionDecay(t *testing.T) {
	s := NewSession()
	s.Select(domain.MoodCalm, nil)

	advanceTo(s, 2)
	s.Record("track")

	tests := []struct {
		ordinal int
		want    bool
	}{
		{ordinal: 2, want: true},
		{ordinal: 20, want: true},
		{ordinal: 21, want: true},
		{ordinal: 22, want: false},
		{ordinal: 23, want: false},
	}

	for _, tt := range tests {
		advanceTo(s, tt.ordinal)
		if got := s.RecentlyShown("track"); got != tt.want {
			t.Errorf("ordinal %d: RecentlyShown = %v, want %v", tt.ordinal, got, tt.want)
		}
	}
}

func TestSessionRecordOverwritesOrdinal(t *testing.T) {
	s := NewSession()
	s.Select(domain.MoodCalm, nil)

	advanceTo(s, 1)
	s.Record("track")
	advanceTo(s, 15)
	s.Record("track")
	advanceTo(s, 25)

	if !s.RecentlyShown("track") {
		t.Error("only the latest appearance should count for decay")
	}
}

func TestSessionSelectResetsOnMoodChange(t *testing.T) {
	s := NewSession()
	s.Select(domain.MoodCalm, []string{"일"})
	advanceTo(s, 3)
	s.Record("track")
	gen := s.Generation()

	if s.Select(domain.MoodCalm, []string{"휴식"}) {
		t.Error("same mood must not reset")
	}
	if !s.RecentlyShown("track") {
		t.Error("buffer cleared without mood change")
	}

	if !s.Select(domain.MoodAngry, nil) {
		t.Error("mood change must reset")
	}
	if s.Ordinal() != 0 || s.RecentlyShown("track") {
		t.Errorf("reset left ordinal=%d shown=%v", s.Ordinal(), s.RecentlyShown("track"))
	}
	if s.Generation() == gen {
		t.Error("generation must change on reset")
	}
	if s.recordIfCurrent(gen, []string{"late"}) {
		t.Error("stale generation must not record")
	}
}

func TestSessionsExpire(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	reg := NewSessions(func() time.Time { return now })

	old := reg.Get("old")
	old.Advance(now.Add(-2 * time.Hour))
	reg.Get("fresh").Advance(now)

	if reg.Get("old") != old {
		t.Fatal("Get must return the same session")
	}
	if n := reg.Expire(time.Hour); n != 1 {
		t.Fatalf("Expire removed %d sessions, want 1", n)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if !reg.Drop("fresh") || reg.Drop("fresh") {
		t.Error("Drop should report existence once")
	}
}
