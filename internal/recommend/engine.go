// Package recommend picks music for a mood while avoiding recent repeats.
package recommend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
)

const (
	// ResultSize is the number of items a batch aims for.
	ResultSize = 5
	// PoolSize is how many candidates are requested from the catalog.
	PoolSize = 30
	// MaxOffset bounds the random search offset.
	MaxOffset = 9
	// RecentEntryWindow is how many stored entries exclude their linked item.
	RecentEntryWindow = 5

	defaultCallTimeout = 15 * time.Second
)

// Tier names the rung of the fallback ladder that produced the pool.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierRetry    Tier = "retry"
	TierFallback Tier = "fallback"
	TierNone     Tier = "none"
)

// Request is one recommendation ask.
type Request struct {
	Mood domain.Mood
	Tags []string
	Note string
}

// Result is one recommendation batch.
// Stale is set when the session changed mood while the batch was computed;
// such a batch carries no items and recorded nothing.
type Result struct {
	Items []domain.CatalogItem `json:"items"`
	Query string               `json:"query"`
	Tier  Tier                 `json:"tier"`
	Stale bool                 `json:"stale,omitempty"`
}

// RecentMedia exposes the catalog ids linked from the latest stored entries.
type RecentMedia interface {
	RecentMediaIDs(n int) map[string]struct{}
}

// Engine runs the search and fallback ladder and applies the eligibility filters.
type Engine struct {
	searcher  domain.CatalogSearcher
	generator domain.TextGenerator
	history   *History
	recent    RecentMedia
	log       logger.Logger

	tables atomic.Pointer[KeywordTables]

	rngMu sync.Mutex
	rng   *rand.Rand

	now         func() time.Time
	callTimeout time.Duration
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithRand sets the random source used for keywords and offsets.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = r }
}

// WithEngineClock overrides the clock used for cooldowns.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithCallTimeout bounds every collaborator call.
func WithCallTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// NewEngine creates an Engine. generator may be nil, in which case the
// fallback tier uses the offline keywords directly.
func NewEngine(
	searcher domain.CatalogSearcher,
	generator domain.TextGenerator,
	history *History,
	recent RecentMedia,
	tables *KeywordTables,
	log logger.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		searcher:    searcher,
		generator:   generator,
		history:     history,
		recent:      recent,
		log:         log,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tables.Store(tables)
	return e
}

// SetTables swaps the keyword tables atomically.
func (e *Engine) SetTables(t *KeywordTables) {
	e.tables.Store(t)
}

// Tables returns the active keyword tables.
func (e *Engine) Tables() *KeywordTables {
	return e.tables.Load()
}

// IsEligible reports whether id is neither cooling down nor recently shown in sess.
func (e *Engine) IsEligible(sess *Session, id string) bool {
	if e.history.CoolingDown(id, e.now()) {
		return false
	}
	if sess != nil && sess.RecentlyShown(id) {
		return false
	}
	return true
}

// RecordShown marks id as recommended now and shown at the session's current ordinal.
func (e *Engine) RecordShown(sess *Session, id string) {
	e.history.Record(id, e.now())
	if sess != nil {
		sess.Record(id)
	}
}

// Recommend produces up to ResultSize unique items for req.
// Collaborator failures never surface: every tier that fails counts as empty
// and total failure yields an empty result.
func (e *Engine) Recommend(ctx context.Context, sess *Session, req Request) Result {
	req.Tags = domain.NormalizeTags(req.Tags)
	sess.Select(req.Mood, req.Tags)
	ordinal, gen := sess.Advance(e.now())

	log := e.log.With(
		logger.String("mood", string(req.Mood)),
		logger.Int("ordinal", ordinal),
	)

	pool, query, tier := e.searchLadder(ctx, req, log)
	res := Result{Query: query, Tier: tier}
	if len(pool) == 0 {
		log.Info("no recommendation candidates", logger.String("query", query))
		res.Items = []domain.CatalogItem{}
		return res
	}

	items := e.pick(sess, pool)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if !sess.recordIfCurrent(gen, ids) {
		log.Debug("discarding stale recommendation batch")
		return Result{Query: query, Tier: tier, Stale: true, Items: []domain.CatalogItem{}}
	}

	now := e.now()
	for _, id := range ids {
		e.history.Record(id, now)
	}
	if err := e.history.Save(ctx, now); err != nil {
		log.Warn("failed to persist recommendation history", logger.Error(err))
	}

	res.Items = items
	log.Debug("recommendation batch ready",
		logger.String("query", query),
		logger.String("tier", string(tier)),
		logger.Int("items", len(items)))
	return res
}

// searchLadder runs the primary, retry and fallback tiers in order.
func (e *Engine) searchLadder(ctx context.Context, req Request, log logger.Logger) ([]domain.CatalogItem, string, Tier) {
	query := buildQuery(e.tables.Load(), req.Mood, req.Tags, e.intn)

	pool := e.search(ctx, query, e.intn(MaxOffset+1), log)
	if len(pool) > 0 {
		return pool, query, TierPrimary
	}

	pool = e.search(ctx, query, 0, log)
	if len(pool) > 0 {
		return pool, query, TierRetry
	}

	fallback := e.fallbackQuery(ctx, req, log)
	pool = e.search(ctx, fallback, 0, log)
	if len(pool) > 0 {
		return pool, fallback, TierFallback
	}
	return nil, fallback, TierNone
}

func (e *Engine) search(ctx context.Context, query string, offset int, log logger.Logger) []domain.CatalogItem {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	items, err := e.searcher.Search(callCtx, domain.SearchRequest{
		Query:  query,
		Kind:   domain.SearchKindTrack,
		Limit:  PoolSize,
		Offset: offset,
	})
	if err != nil {
		log.Warn("catalog search failed",
			logger.String("query", query),
			logger.Int("offset", offset),
			logger.Error(err))
		return nil
	}
	return items
}

func (e *Engine) fallbackQuery(ctx context.Context, req Request, log logger.Logger) string {
	offline := offlineKeywords(req.Mood, req.Tags)
	if e.generator == nil {
		return offline
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	reply, err := e.generator.Generate(callCtx, keywordPrompt(req))
	if err != nil {
		log.Warn("fallback keyword generation failed", logger.Error(err))
		return offline
	}
	if q := parseKeywordReply(reply); q != "" {
		return q
	}
	return offline
}

// pick filters the pool and backfills from it up to ResultSize.
func (e *Engine) pick(sess *Session, pool []domain.CatalogItem) []domain.CatalogItem {
	excluded := e.recent.RecentMediaIDs(RecentEntryWindow)

	chosen := make(map[string]struct{}, ResultSize)
	items := make([]domain.CatalogItem, 0, ResultSize)
	for _, it := range pool {
		if len(items) == ResultSize {
			break
		}
		if it.ID == "" {
			continue
		}
		if _, dup := chosen[it.ID]; dup {
			continue
		}
		if _, recent := excluded[it.ID]; recent {
			continue
		}
		if !e.IsEligible(sess, it.ID) {
			continue
		}
		chosen[it.ID] = struct{}{}
		items = append(items, it)
	}

	// Backfill relaxes cooldown and session decay only; items linked in the
	// recent entries stay out and nothing repeats.
	for _, it := range pool {
		if len(items) == ResultSize {
			break
		}
		if it.ID == "" {
			continue
		}
		if _, dup := chosen[it.ID]; dup {
			continue
		}
		if _, recent := excluded[it.ID]; recent {
			continue
		}
		chosen[it.ID] = struct{}{}
		items = append(items, it)
	}
	return items
}

func (e *Engine) intn(n int) int {
	if n <= 1 {
		return 0
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return e.rng.IntN(n)
}

func keywordPrompt(req Request) string {
	return fmt.Sprintf(
		"사용자의 현재 기분은 %q이고, 선택한 태그는 %q, 메모 내용은 %q입니다. "+
			"이 정보를 바탕으로 음악을 검색할 때 사용할 만한 5개 이하의 핵심 키워드(장르, 분위기, 아티스트, 활동 등)를 "+
			"쉼표로 구분하여 생성해 주세요. 키워드만 답하세요.",
		req.Mood.Label(), strings.Join(req.Tags, ", "), req.Note)
}
