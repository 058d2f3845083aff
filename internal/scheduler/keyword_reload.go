package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
	"github.com/MrSnakeDoc/harunode/internal/sources/keywords"
)

// TableSetter receives freshly loaded keyword tables.
type TableSetter interface {
	SetTables(t *recommend.KeywordTables)
}

// KeywordReloader handles periodic reloading of the recommendation keyword tables
type KeywordReloader struct {
	loader        *keywords.Loader
	target        TableSetter
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu         sync.RWMutex
	lastReload time.Time
	lastErr    error
}

// NewKeywordReloader creates a new keyword reloader.
// A zero interval disables the ticker; manual triggers still work.
func NewKeywordReloader(
	keywordFile string,
	target TableSetter,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *KeywordReloader {
	return &KeywordReloader{
		loader:        keywords.NewLoader(keywordFile),
		target:        target,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the tables once and then reloads on tick or manual trigger.
// The loop runs even when the first load fails so a fixed file can be
// picked up by a later trigger.
func (kr *KeywordReloader) Start(ctx context.Context) error {
	initialErr := kr.Reload(ctx)

	// A nil channel never fires, leaving only manual triggers.
	var tick <-chan time.Time
	var ticker *time.Ticker
	if kr.interval > 0 {
		ticker = time.NewTicker(kr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				if err := kr.Reload(ctx); err != nil {
					kr.logger.Error("failed to reload keywords", logger.Error(err))
				}
			case <-kr.manualTrigger:
				kr.logger.Info("manual keyword reload triggered")
				if err := kr.Reload(ctx); err != nil {
					kr.logger.Error("failed to reload keywords", logger.Error(err))
				}
			case <-kr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if initialErr != nil {
		return fmt.Errorf("initial keyword load failed: %w", initialErr)
	}
	return nil
}

// Stop stops the reloader
func (kr *KeywordReloader) Stop() {
	kr.stopOnce.Do(func() { close(kr.stopCh) })
}

// Reload loads the tables and swaps them in. On failure the previous tables stay active.
func (kr *KeywordReloader) Reload(_ context.Context) error {
	tables, err := kr.loader.Load()

	kr.mu.Lock()
	kr.lastErr = err
	if err == nil {
		kr.lastReload = time.Now()
	}
	kr.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to load keywords: %w", err)
	}

	kr.target.SetTables(tables)

	moods, tags := tables.Counts()
	kr.logger.Info("keyword tables loaded",
		logger.String("file", kr.loader.Path()),
		logger.Int("moods", moods),
		logger.Int("tags", tags))
	return nil
}

// Status returns the time of the last successful reload and the last error.
func (kr *KeywordReloader) Status() (time.Time, error) {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	return kr.lastReload, kr.lastErr
}
