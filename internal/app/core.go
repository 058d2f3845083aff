package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/harunode/internal/clients/gemini"
	"github.com/MrSnakeDoc/harunode/internal/clients/spotify"
	"github.com/MrSnakeDoc/harunode/internal/config"
	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/insight"
	"github.com/MrSnakeDoc/harunode/internal/journal"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
	"github.com/MrSnakeDoc/harunode/internal/redis"
	"github.com/MrSnakeDoc/harunode/internal/sources/keywords"
	"github.com/MrSnakeDoc/harunode/internal/store"
	"github.com/MrSnakeDoc/harunode/internal/store/disk"
	"github.com/MrSnakeDoc/harunode/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/harunode/internal/store/redis"
)

// Core holds the personal-core components shared by the server and the CLI.
type Core struct {
	KV       store.KV
	Journal  *journal.Store
	History  *recommend.History
	Engine   *recommend.Engine
	Sessions *recommend.Sessions
	Insights *insight.Cache

	CatalogReady bool
	TextReady    bool

	redisClient *goredis.Client
	logger      logger.Logger
}

// OpenStore opens the key-value backend selected by cfg.StoreBackend.
// The returned redis client is nil for the other backends.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, *goredis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store, entries are lost on exit")
		return memory.New(), nil, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), client, nil

	case config.BackendDisk, "":
		kv, err := disk.New(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open data dir %s: %w", cfg.DataDir, err)
		}
		log.Info("using disk store", logger.String("dir", cfg.DataDir))
		return kv, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenCore opens the store and builds every component on top of it.
// Missing collaborator credentials degrade features, they never fail startup.
func OpenCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	kv, redisClient, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	tables, err := keywords.NewLoader(cfg.KeywordFile).Load()
	if err != nil {
		log.Warn("keyword file unusable, using built-in tables",
			logger.String("file", cfg.KeywordFile),
			logger.Error(err))
		if tables, err = keywords.Default(); err != nil {
			return nil, fmt.Errorf("failed to load built-in keywords: %w", err)
		}
	}

	searcher, catalogReady := openCatalog(cfg, log)
	generator := openGenerator(ctx, cfg, log)

	j, err := journal.New(ctx, kv, log.With(logger.String("component", "journal")), journal.WithLocation(cfg.Location))
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	history := recommend.LoadHistory(ctx, kv, log)

	engine := recommend.NewEngine(
		searcher,
		generator,
		history,
		j,
		tables,
		log.With(logger.String("component", "recommend")),
		recommend.WithCallTimeout(cfg.CollaboratorTimeout),
	)

	insights := insight.New(
		kv,
		generator,
		log.With(logger.String("component", "insight")),
		insight.WithLocation(cfg.Location),
		insight.WithCallTimeout(cfg.CollaboratorTimeout),
	)

	return &Core{
		KV:           kv,
		Journal:      j,
		History:      history,
		Engine:       engine,
		Sessions:     recommend.NewSessions(nil),
		Insights:     insights,
		CatalogReady: catalogReady,
		TextReady:    generator != nil,
		redisClient:  redisClient,
		logger:       log,
	}, nil
}

func openCatalog(cfg *config.Config, log logger.Logger) (domain.CatalogSearcher, bool) {
	client, err := spotify.New(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Market:       cfg.SpotifyMarket,
		Timeout:      cfg.CollaboratorTimeout,
	}, log.With(logger.String("component", "spotify")))
	if err != nil {
		if errors.Is(err, spotify.ErrNotConfigured) {
			log.Warn("spotify credentials not set, recommendations will be empty")
		} else {
			log.Error("failed to create spotify client", logger.Error(err))
		}
		return spotify.Disabled{}, false
	}
	return client, true
}

// openGenerator returns nil when no generator is configured; callers fall
// back to offline keywords and quotes.
func openGenerator(ctx context.Context, cfg *config.Config, log logger.Logger) domain.TextGenerator {
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.CollaboratorTimeout,
	}, log.With(logger.String("component", "gemini")))
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			log.Info("gemini api key not set, using offline keywords and quotes")
		} else {
			log.Error("failed to create gemini client", logger.Error(err))
		}
		return nil
	}
	return client
}

// Close releases the backend connection, if any.
func (c *Core) Close() error {
	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	c.logger.Info("✅ Redis closed cleanly")
	return nil
}
