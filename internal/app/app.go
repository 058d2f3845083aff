package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/config"
	"github.com/MrSnakeDoc/harunode/internal/httpserver"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/scheduler"
	"github.com/MrSnakeDoc/harunode/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	core      *Core
	server    *httpserver.Server
	reloader  *scheduler.KeywordReloader
	collector *scheduler.InsightCollector
}

// New builds the server application on top of an opened core.
func New(cfg *config.Config, loggerClient logger.Logger, core *Core) *App {
	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewKeywordReloader(
		cfg.KeywordFile,
		core.Engine,
		loggerClient,
		cfg.KeywordReload,
		reloadTrigger,
	)

	collector := scheduler.NewInsightCollector(
		core.Insights,
		core.Journal,
		core.Sessions,
		loggerClient,
		cfg.InsightGCInterval,
		cfg.InsightRetention,
		cfg.SessionIdleTTL,
	)

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMinute,
		StoreBackend:    cfg.StoreBackend,
		KV:              core.KV,
		Journal:         core.Journal,
		Engine:          core.Engine,
		Sessions:        core.Sessions,
		Insights:        core.Insights,
		Keywords:        reloader,
		CatalogReady:    core.CatalogReady,
		TextReady:       core.TextReady,
		ReloadTrigger:   reloadTrigger,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		core:      core,
		server:    httpserver.New(cfg, loggerClient, d),
		reloader:  reloader,
		collector: collector,
	}
}

// Handler exposes the router, without the listener or the background jobs.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting harunode v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("harunode %s", version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keyword tables: the reloader swaps them into the engine
	if err := a.reloader.Start(ctx); err != nil {
		a.logger.Warn("keyword reload failed at startup, keeping current tables",
			logger.Error(err))
	}
	a.logger.Info("keyword reloader started",
		logger.Duration("interval", a.cfg.KeywordReload))

	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start insight collector: %w", err)
	}
	a.logger.Info("insight collector started",
		logger.Duration("interval", a.cfg.InsightGCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.stopJobs()
		return err
	}

	a.stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ harunode stopped cleanly")
	return nil
}

func (a *App) stopJobs() {
	a.reloader.Stop()
	a.collector.Stop()
}
