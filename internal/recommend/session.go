package recommend

import (
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

// SessionDecay is the number of refreshes after which a shown candidate
// becomes eligible again within the same session.
const SessionDecay = 20

// Session is the anti-repetition buffer of one recommendation context.
// It is discarded whenever the active mood changes.
type Session struct {
	mu sync.Mutex

	mood    domain.Mood
	tags    []string
	ordinal int
	shown   map[string]int // candidate ID -> refresh ordinal it was last shown at

	// generation changes on every reset so in-flight batches can detect
	// that their context was replaced.
	generation uint64
	lastUsed   time.Time
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		shown: make(map[string]int),
	}
}

// Select sets the active mood and tags. Changing the mood resets the buffer
// and the refresh ordinal; tag edits keep both. It reports whether a reset
// happened.
func (s *Session) Select(mood domain.Mood, tags []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tags = slices.Clone(tags)
	if mood == s.mood {
		return false
	}
	s.mood = mood
	s.resetLocked()
	return true
}

// Reset clears the buffer and the refresh ordinal.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.shown = make(map[string]int)
	s.ordinal = 0
	s.generation++
}

// Advance starts a new refresh and returns its ordinal and the generation it belongs to.
func (s *Session) Advance(now time.Time) (ordinal int, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ordinal++
	s.lastUsed = now
	return s.ordinal, s.generation
}

// Ordinal returns the current refresh ordinal.
func (s *Session) Ordinal() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ordinal
}

// Generation returns the current reset generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

// Mood returns the active mood.
func (s *Session) Mood() domain.Mood {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mood
}

// RecentlyShown reports whether id was shown fewer than SessionDecay refreshes ago.
func (s *Session) RecentlyShown(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.shown[id]
	if !ok {
		return false
	}
	return s.ordinal-at < SessionDecay
}

// Record marks id as shown at the current ordinal, replacing any earlier mark.
func (s *Session) Record(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shown[id] = s.ordinal
}

// recordIfCurrent records ids only when the session is still in generation gen.
func (s *Session) recordIfCurrent(gen uint64, ids []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return false
	}
	for _, id := range ids {
		s.shown[id] = s.ordinal
	}
	return true
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUsed
}

// Sessions keeps one Session per client-supplied session id.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessions creates an empty registry.
func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		sess = NewSession()
		sess.lastUsed = r.now()
		r.sessions[id] = sess
	}
	return sess
}

// Drop forgets the session for id. It reports whether one existed.
func (r *Sessions) Drop(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if ok {
		sess.Reset()
		delete(r.sessions, id)
	}
	return ok
}

// Expire removes sessions idle for longer than ttl and returns how many went.
func (r *Sessions) Expire(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	removed := 0
	for id, sess := range r.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
