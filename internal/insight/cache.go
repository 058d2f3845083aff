// Package insight computes and caches analytical insights about the log.
package insight

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// MinEntriesForAnalysis is the log size below which no analysis is requested.
	MinEntriesForAnalysis = 3
	// AnalysisWindow is how many of the latest entries are analysed.
	AnalysisWindow = 30

	defaultCallTimeout = 15 * time.Second
)

const (
	placeholderObservation = "데이터가 부족하여 분석할 수 없습니다."
	placeholderOverall     = "더 많은 기록을 남겨주시면 정확한 분석을 제공해드릴 수 있어요."
)

// Cache stores one insight payload per log fingerprint.
// A changed fingerprint is a miss; nothing is explicitly invalidated.
type Cache struct {
	kv        store.KV
	generator domain.TextGenerator
	log       logger.Logger

	flight singleflight.Group

	now         func() time.Time
	loc         *time.Location
	callTimeout time.Duration
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides the clock used for "today" and ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLocation sets the zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(c *Cache) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithCallTimeout bounds each generator call.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// New creates a Cache. generator may be nil; every computation then uses
// the offline defaults.
func New(kv store.KV, generator domain.TextGenerator, log logger.Logger, opts ...Option) *Cache {
	c := &Cache{
		kv:          kv,
		generator:   generator,
		log:         log,
		now:         time.Now,
		loc:         time.Local,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the storage key for a fingerprint.
func Key(fp domain.Fingerprint) string {
	return store.InsightKey(fp.Count, fp.Latest)
}

// GetOrCompute returns the insight for the log, computing and storing it on
// a miss. The boolean reports whether the result came from the cache.
// Entries must be in append order. The computation is detached from the
// caller's cancellation; each collaborator call keeps its own timeout.
func (c *Cache) GetOrCompute(ctx context.Context, entries []domain.ActivityEntry) (domain.Insight, bool) {
	fp := domain.FingerprintOf(entries)
	key := Key(fp)

	if cached, ok := c.lookup(ctx, key); ok {
		return cached, true
	}

	flightCtx := context.WithoutCancel(ctx)
	v, _, _ := c.flight.Do(key, func() (interface{}, error) {
		// A concurrent caller may have stored it while we waited.
		if cached, ok := c.lookup(flightCtx, key); ok {
			return cached, nil
		}
		return c.compute(flightCtx, key, entries), nil
	})
	return v.(domain.Insight), false
}

// lookup returns a trusted cached payload. Incomplete or unreadable payloads
// are deleted.
func (c *Cache) lookup(ctx context.Context, key string) (domain.Insight, bool) {
	var cached domain.Insight
	err := store.LoadJSON(ctx, c.kv, key, &cached)
	switch {
	case err == nil && cached.Complete():
		return cached, true
	case err == nil:
		c.log.Warn("discarding insight without quote", logger.String("key", key))
	case errors.Is(err, store.ErrNotFound):
		return domain.Insight{}, false
	default:
		c.log.Warn("discarding unreadable insight", logger.String("key", key), logger.Error(err))
	}

	if err := c.kv.Delete(ctx, key); err != nil {
		c.log.Warn("failed to delete insight", logger.String("key", key), logger.Error(err))
	}
	return domain.Insight{}, false
}

func (c *Cache) compute(ctx context.Context, key string, entries []domain.ActivityEntry) domain.Insight {
	recent := c.recentQuotes(ctx)
	mood := c.quoteMood(entries)

	var (
		analysis analysisReply
		quote    *domain.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = c.requestAnalysis(gctx, entries)
		return nil
	})
	g.Go(func() error {
		quote = c.requestQuote(gctx, mood, recent)
		return nil
	})
	_ = g.Wait()

	result := domain.Insight{
		TagEmotion: analysis.TagEmotion,
		MusicTaste: analysis.MusicTaste,
		Overall:    analysis.Overall,
		Quote:      quote,
		ComputedAt: c.now(),
	}

	if err := store.SaveJSON(ctx, c.kv, key, result); err != nil {
		c.log.Warn("failed to store insight", logger.String("key", key), logger.Error(err))
	}
	if err := store.SaveJSON(ctx, c.kv, store.KeyRecentQuotes, pushRecent(recent, quote.Text)); err != nil {
		c.log.Warn("failed to store recent quotes", logger.Error(err))
	}

	c.log.Debug("insight computed",
		logger.String("key", key),
		logger.String("mood", string(mood)),
		logger.Int("entries", len(entries)))
	return result
}

func (c *Cache) requestAnalysis(ctx context.Context, entries []domain.ActivityEntry) analysisReply {
	placeholder := analysisReply{
		TagEmotion: []string{placeholderObservation},
		MusicTaste: []string{placeholderObservation},
		Overall:    placeholderOverall,
	}
	if len(entries) < MinEntriesForAnalysis || c.generator == nil {
		return placeholder
	}

	prompt, err := analysisPrompt(analysisWindow(entries))
	if err != nil {
		c.log.Warn("failed to build analysis prompt", logger.Error(err))
		return placeholder
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	reply, err := c.generator.Generate(callCtx, prompt)
	if err != nil {
		c.log.Warn("analysis request failed", logger.Error(err))
		return placeholder
	}
	parsed, err := parseAnalysis(reply)
	if err != nil {
		c.log.Warn("analysis reply unusable", logger.Error(err))
		return placeholder
	}
	return parsed
}

func (c *Cache) requestQuote(ctx context.Context, mood domain.Mood, recent []string) *domain.Quote {
	fallback := func() *domain.Quote {
		q := offlineQuote(mood, recent)
		return &q
	}
	if c.generator == nil {
		return fallback()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	reply, err := c.generator.Generate(callCtx, quotePrompt(mood, recent))
	if err != nil {
		c.log.Warn("quote request failed", logger.Error(err))
		return fallback()
	}
	q, err := parseQuote(reply)
	if err != nil {
		c.log.Warn("quote reply unusable", logger.Error(err))
		return fallback()
	}
	return q
}

// analysisWindow returns the AnalysisWindow most recent entries by
// CreatedAt, oldest first. Append order breaks ties.
func analysisWindow(entries []domain.ActivityEntry) []domain.ActivityEntry {
	window := make([]domain.ActivityEntry, len(entries))
	copy(window, entries)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].CreatedAt.Before(window[j].CreatedAt)
	})
	if len(window) > AnalysisWindow {
		window = window[len(window)-AnalysisWindow:]
	}
	return window
}

// quoteMood is today's most frequent mood, else the all-time one, else calm.
func (c *Cache) quoteMood(entries []domain.ActivityEntry) domain.Mood {
	if m, ok := domain.MostFrequentMood(domain.EntriesOnDay(entries, c.now(), c.loc)); ok {
		return m
	}
	if m, ok := domain.MostFrequentMood(entries); ok {
		return m
	}
	return domain.MoodCalm
}

func (c *Cache) recentQuotes(ctx context.Context) []string {
	var recent []string
	if err := store.LoadJSON(ctx, c.kv, store.KeyRecentQuotes, &recent); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn("recent quotes unreadable, starting empty", logger.Error(err))
		}
		return nil
	}
	if len(recent) > RecentQuoteLimit {
		recent = recent[:RecentQuoteLimit]
	}
	return recent
}

// RecentQuotes returns the rolling list of recently shown quotes, newest first.
func (c *Cache) RecentQuotes(ctx context.Context) []string {
	return c.recentQuotes(ctx)
}

// Prune deletes cached insights for fingerprints other than keep whose latest
// entry is older than olderThan. Unparsable keys are removed as well.
func (c *Cache) Prune(ctx context.Context, keep domain.Fingerprint, olderThan time.Duration) (int, error) {
	keys, err := c.kv.Keys(ctx, store.KeyPrefixInsight)
	if err != nil {
		return 0, err
	}

	keepKey := Key(keep)
	cutoff := c.now().Add(-olderThan).UnixNano()
	removed := 0
	for _, key := range keys {
		if key == keepKey {
			continue
		}
		if _, latest, err := store.ParseInsightKey(key); err == nil && latest >= cutoff {
			continue
		}
		if err := c.kv.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
