// Package journal owns the canonical activity log.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/store"
	"github.com/google/uuid"
)

// Store holds the log in memory and persists the whole log on every mutation.
// Memory is the primary source: a failed persist is logged, never rolled back.
type Store struct {
	mu           sync.RWMutex
	entries      []domain.ActivityEntry
	index        map[string]int // ID -> position in entries
	achievements domain.AchievementSet

	kv  store.KV
	log logger.Logger

	now   func() time.Time
	newID func() string
	loc   *time.Location
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides entry id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLocation sets the zone used for local-hour badge rules.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// ImportResult reports a merge import.
type ImportResult struct {
	Added   int                    `json:"added"`
	Skipped int                    `json:"skipped"`
	Invalid int                    `json:"invalid"`
	Entries []domain.ActivityEntry `json:"entries"`
}

// New loads the log from kv. A missing or corrupt log starts empty; any
// other read failure is returned.
func New(ctx context.Context, kv store.KV, log logger.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    kv,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	var loaded []domain.ActivityEntry
	err := store.LoadJSON(ctx, kv, store.KeyLog, &loaded)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		loaded = nil
	case errors.Is(err, store.ErrCorrupt):
		log.Warn("activity log is corrupt, starting empty", logger.Error(err))
		loaded = nil
	default:
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}

	s.entries = make([]domain.ActivityEntry, 0, len(loaded))
	s.index = make(map[string]int, len(loaded))
	dropped := 0
	for _, e := range loaded {
		if e.ID == "" {
			dropped++
			continue
		}
		if _, dup := s.index[e.ID]; dup {
			dropped++
			continue
		}
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	if dropped > 0 {
		log.Warn("dropped stored entries without a unique id", logger.Int("count", dropped))
	}
	s.achievements = domain.EvaluateAchievements(s.entries, s.loc)

	log.Debug("activity log loaded", logger.Int("entries", len(s.entries)))
	return s, nil
}

// Add validates the draft, assigns identity and appends it.
func (s *Store) Add(ctx context.Context, draft domain.EntryDraft) (domain.ActivityEntry, error) {
	e := draft.Entry()
	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.ActivityEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.uniqueIDLocked()
	e.CreatedAt = s.now()
	s.appendLocked(e)
	s.changedLocked(ctx)

	return cloneEntry(e), nil
}

// Update merges patch into the entry with id.
// The boolean is false when no such entry exists; that is not an error.
func (s *Store) Update(ctx context.Context, id string, patch domain.EntryPatch) (domain.ActivityEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.ActivityEntry{}, false, nil
	}

	updated := patch.Apply(s.entries[pos])
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return domain.ActivityEntry{}, true, err
	}

	s.entries[pos] = updated
	s.changedLocked(ctx)
	return cloneEntry(updated), true, nil
}

// Delete removes the entry with id. It reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}

	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	s.reindexLocked()
	s.changedLocked(ctx)
	return true
}

// MergeImport appends every incoming entry whose id is not already known.
// Import never overwrites: colliding ids, including repeats within the batch,
// are skipped. Entries without an id or timestamp receive one; entries that
// fail validation are counted as invalid.
func (s *Store) MergeImport(ctx context.Context, incoming []domain.ActivityEntry) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult
	for _, e := range incoming {
		e = cloneEntry(e)
		e.Normalize()
		if err := e.Validate(); err != nil {
			res.Invalid++
			s.log.Debug("skipping invalid imported entry", logger.String("id", e.ID), logger.Error(err))
			continue
		}
		if e.ID == "" {
			e.ID = s.uniqueIDLocked()
		} else if _, exists := s.index[e.ID]; exists {
			res.Skipped++
			continue
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		s.appendLocked(e)
		res.Added++
	}

	if res.Added > 0 {
		s.changedLocked(ctx)
	}
	res.Entries = s.snapshotLocked()

	s.log.Info("merge import finished",
		logger.Int("added", res.Added),
		logger.Int("skipped", res.Skipped),
		logger.Int("invalid", res.Invalid))
	return res
}

// Entries returns a copy of the log in append order.
func (s *Store) Entries() []domain.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Get returns the entry with id.
func (s *Store) Get(id string) (domain.ActivityEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.ActivityEntry{}, false
	}
	return cloneEntry(s.entries[pos]), true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Recent returns up to n entries, newest first.
// CreatedAt decides; append order breaks ties.
func (s *Store) Recent(n int) []domain.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return recentLocked(s.entries, n)
}

// RecentMediaIDs returns the linked catalog ids of the n most recent entries.
func (s *Store) RecentMediaIDs(n int) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{}, n)
	for _, e := range recentLocked(s.entries, n) {
		if id := e.MediaID(); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Achievements returns the badges derived from the current log.
func (s *Store) Achievements() domain.AchievementSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.AchievementSet, len(s.achievements))
	for b := range s.achievements {
		out[b] = struct{}{}
	}
	return out
}

// Fingerprint returns the cache fingerprint of the current log.
func (s *Store) Fingerprint() domain.Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.FingerprintOf(s.entries)
}

// Location returns the zone used for local-time rules.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Ping checks the backing store.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *Store) appendLocked(e domain.ActivityEntry) {
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.ID] = i
	}
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if _, taken := s.index[id]; !taken && id != "" {
			return id
		}
	}
}

// changedLocked recomputes derived state and persists the full log.
func (s *Store) changedLocked(ctx context.Context) {
	s.achievements = domain.EvaluateAchievements(s.entries, s.loc)

	if err := store.SaveJSON(ctx, s.kv, store.KeyLog, s.entries); err != nil {
		s.log.Warn("failed to persist activity log", logger.Int("entries", len(s.entries)), logger.Error(err))
	}
}

func (s *Store) snapshotLocked() []domain.ActivityEntry {
	out := make([]domain.ActivityEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func recentLocked(entries []domain.ActivityEntry, n int) []domain.ActivityEntry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := entries[order[a]], entries[order[b]]
		if !ea.CreatedAt.Equal(eb.CreatedAt) {
			return ea.CreatedAt.After(eb.CreatedAt)
		}
		return order[a] > order[b]
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]domain.ActivityEntry, n)
	for i := 0; i < n; i++ {
		out[i] = cloneEntry(entries[order[i]])
	}
	return out
}

func cloneEntry(e domain.ActivityEntry) domain.ActivityEntry {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	if e.LinkedMedia != nil {
		media := *e.LinkedMedia
		e.LinkedMedia = &media
	}
	return e
}

// String is used in logs.
func (r ImportResult) String() string {
	return fmt.Sprintf("added=%d skipped=%d invalid=%d", r.Added, r.Skipped, r.Invalid)
}
