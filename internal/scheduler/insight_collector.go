package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
)

const (
	// DefaultInsightRetention is how long superseded insight entries are kept
	DefaultInsightRetention = 30 * 24 * time.Hour // 30 days
	// DefaultSessionIdleTTL is how long an unused recommendation session lives
	DefaultSessionIdleTTL = 2 * time.Hour
)

// InsightPruner removes superseded cached insights.
type InsightPruner interface {
	Prune(ctx context.Context, keep domain.Fingerprint, olderThan time.Duration) (int, error)
}

// FingerprintSource reports the current log fingerprint.
type FingerprintSource interface {
	Fingerprint() domain.Fingerprint
}

// SessionExpirer drops idle recommendation sessions.
type SessionExpirer interface {
	Expire(ttl time.Duration) int
}

// InsightCollector handles cleanup of stale insight cache entries and idle sessions
type InsightCollector struct {
	pruner     InsightPruner
	log        FingerprintSource
	sessions   SessionExpirer
	logger     logger.Logger
	interval   time.Duration
	retention  time.Duration
	sessionTTL time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewInsightCollector creates a new collector. sessions may be nil.
func NewInsightCollector(
	pruner InsightPruner,
	source FingerprintSource,
	sessions SessionExpirer,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
	sessionTTL time.Duration,
) *InsightCollector {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retention == 0 {
		retention = DefaultInsightRetention
	}
	if sessionTTL == 0 {
		sessionTTL = DefaultSessionIdleTTL
	}

	return &InsightCollector{
		pruner:     pruner,
		log:        source,
		sessions:   sessions,
		logger:     log,
		interval:   interval,
		retention:  retention,
		sessionTTL: sessionTTL,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the periodic collection process
func (ic *InsightCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := ic.Collect(ctx); err != nil {
		ic.logger.Warn("initial insight collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(ic.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ic.Collect(ctx); err != nil {
					ic.logger.Error("insight collection failed",
						logger.Error(err))
				}
			case <-ic.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (ic *InsightCollector) Stop() {
	ic.stopOnce.Do(func() { close(ic.stopCh) })
}

// Collect prunes insight entries for fingerprints other than the current one
// and expires idle sessions.
func (ic *InsightCollector) Collect(ctx context.Context) error {
	ic.logger.Debug("running insight collection")

	sessionsExpired := 0
	if ic.sessions != nil {
		sessionsExpired = ic.sessions.Expire(ic.sessionTTL)
	}

	removed, err := ic.pruner.Prune(ctx, ic.log.Fingerprint(), ic.retention)
	if err != nil {
		return err
	}

	if removed > 0 || sessionsExpired > 0 {
		ic.logger.Info("insight collection completed",
			logger.Int("insights_deleted", removed),
			logger.Int("sessions_expired", sessionsExpired))
	} else {
		ic.logger.Debug("nothing to collect")
	}

	return nil
}
