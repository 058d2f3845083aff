package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/utils"
)

// RateLimitConfig bounds how fast one device client may call the local API.
type RateLimitConfig struct {
	Burst      int           // requests allowed back to back; <= 0 disables limiting
	PerMinute  int           // tokens refilled per minute
	MaxClients int           // tracked clients before idle ones are evicted early
	IdleTTL    time.Duration // a client unseen for this long is forgotten
	TrustProxy bool          // resolve the client from proxy headers
	Now        func() time.Time
}

// verdict is the outcome of one request against a client's bucket.
type verdict struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds, only when !allowed
}

type tokens struct {
	mu       sync.Mutex
	level    float64
	refilled time.Time
	seen     time.Time
}

// clientBuckets is a token bucket per client address.
type clientBuckets struct {
	cfg     RateLimitConfig
	perSec  float64
	ceiling float64

	mu      sync.Mutex
	clients map[string]*tokens
	evicted time.Time
}

func newClientBuckets(cfg RateLimitConfig) *clientBuckets {
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 4096
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &clientBuckets{
		cfg:     cfg,
		perSec:  float64(cfg.PerMinute) / 60,
		ceiling: float64(cfg.Burst),
		clients: make(map[string]*tokens),
		evicted: cfg.Now(),
	}
}

func (c *clientBuckets) bucketFor(client string, now time.Time) *tokens {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.clients) >= c.cfg.MaxClients || now.Sub(c.evicted) >= time.Minute {
		c.evictIdleLocked(now)
	}
	t, ok := c.clients[client]
	if !ok {
		t = &tokens{level: c.ceiling, refilled: now, seen: now}
		c.clients[client] = t
	}
	return t
}

func (c *clientBuckets) evictIdleLocked(now time.Time) {
	for client, t := range c.clients {
		t.mu.Lock()
		idle := now.Sub(t.seen) > c.cfg.IdleTTL
		t.mu.Unlock()
		if idle {
			delete(c.clients, client)
		}
	}
	c.evicted = now
}

func (c *clientBuckets) take(client string, now time.Time) verdict {
	t := c.bucketFor(client, now)

	t.mu.Lock()
	defer t.mu.Unlock()

	if dt := now.Sub(t.refilled).Seconds(); dt > 0 {
		t.level = math.Min(c.ceiling, t.level+dt*c.perSec)
		t.refilled = now
	}
	if t.level < 1 {
		wait := int(math.Ceil((1 - t.level) / c.perSec))
		return verdict{retryAfter: max(wait, 1)}
	}
	t.level--
	t.seen = now
	return verdict{allowed: true, remaining: int(t.level)}
}

// RateLimit answers 429 once a client has spent its burst. Limit headers are
// set on every response.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	buckets := newClientBuckets(cfg)
	limit := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := buckets.take(utils.ClientIP(r, cfg.TrustProxy), buckets.cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
			if !v.allowed {
				h.Set("Retry-After", strconv.Itoa(v.retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
