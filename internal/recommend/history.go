package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/store"
)

// Cooldown is how long a recommended candidate stays ineligible.
const Cooldown = 14 * 24 * time.Hour

// HistoryRecord is the persisted form of one candidate's last recommendation.
type HistoryRecord struct {
	CandidateID       string    `json:"candidate_id"`
	LastRecommendedAt time.Time `json:"last_recommended_at"`
}

// History tracks when each candidate was last recommended.
// There is at most one record per candidate; the latest write wins.
type History struct {
	mu   sync.RWMutex
	last map[string]time.Time

	kv  store.KV
	log logger.Logger
}

// LoadHistory reads the history from kv. Missing or corrupt data yields an
// empty history.
func LoadHistory(ctx context.Context, kv store.KV, log logger.Logger) *History {
	h := &History{
		last: make(map[string]time.Time),
		kv:   kv,
		log:  log,
	}

	var records []HistoryRecord
	if err := store.LoadJSON(ctx, kv, store.KeyRecommendHistory, &records); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("recommendation history unreadable, starting empty", logger.Error(err))
		}
		return h
	}
	for _, r := range records {
		if r.CandidateID == "" {
			continue
		}
		if prev, ok := h.last[r.CandidateID]; !ok || r.LastRecommendedAt.After(prev) {
			h.last[r.CandidateID] = r.LastRecommendedAt
		}
	}
	return h
}

// CoolingDown reports whether id was recommended less than Cooldown before now.
func (h *History) CoolingDown(id string, now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	last, ok := h.last[id]
	if !ok {
		return false
	}
	return now.Sub(last) < Cooldown
}

// Record upserts the last recommendation time of id.
func (h *History) Record(id string, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last[id] = at
}

// LastRecommended returns the recorded time of id.
func (h *History) LastRecommended(id string) (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.last[id]
	return t, ok
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.last)
}

// Save persists every record still inside the cooldown window relative to now.
// Expired records no longer affect eligibility and are dropped.
func (h *History) Save(ctx context.Context, now time.Time) error {
	h.mu.Lock()
	records := make([]HistoryRecord, 0, len(h.last))
	for id, at := range h.last {
		if now.Sub(at) >= Cooldown {
			delete(h.last, id)
			continue
		}
		records = append(records, HistoryRecord{CandidateID: id, LastRecommendedAt: at})
	}
	h.mu.Unlock()

	return store.SaveJSON(ctx, h.kv, store.KeyRecommendHistory, records)
}
