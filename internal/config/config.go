package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable through HARU_STORE_BACKEND.
const (
	BackendDisk   = "disk"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: "127.0.0.1:8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string         // disk | redis | memory
	DataDir      string         // diskv base directory for the disk backend
	Location     *time.Location // local day boundaries for badges and stats

	// Collaborators
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyMarket       string        // ex: "KR"
	GeminiAPIKey        string        // empty => offline keywords and quotes
	GeminiModel         string        // ex: "gemini-2.5-flash"
	CollaboratorTimeout time.Duration // bound on every search / generate call
	KeywordFile         string        // optional override of the embedded keyword tables
	KeywordReload       time.Duration // 0 => reload only on demand
	InsightGCInterval   time.Duration
	InsightRetention    time.Duration
	SessionIdleTTL      time.Duration
	RateLimitBurst      int
	RateLimitPerMinute  int

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "127.0.0.1/32, 192.168.1.0/24")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HARU_LISTEN_PORT", "127.0.0.1:8080"),
		ShutdownTimeout: mustDuration("HARU_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HARU_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HARU_PRETTY_LOG", true),

		// Storage
		StoreBackend: strings.ToLower(getenv("HARU_STORE_BACKEND", BackendDisk)),
		DataDir:      getenv("HARU_DATA_DIR", defaultDataDir()),
		Location:     mustLocation("HARU_TIMEZONE", time.Local),

		// Collaborators
		SpotifyClientID:     getenv("HARU_SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getenv("HARU_SPOTIFY_CLIENT_SECRET", ""),
		SpotifyMarket:       getenv("HARU_SPOTIFY_MARKET", "KR"),
		GeminiAPIKey:        getenv("HARU_GEMINI_API_KEY", ""),
		GeminiModel:         getenv("HARU_GEMINI_MODEL", "gemini-2.5-flash"),
		CollaboratorTimeout: mustDuration("HARU_COLLABORATOR_TIMEOUT", 15*time.Second),
		KeywordFile:         getenv("HARU_KEYWORD_FILE", ""),
		KeywordReload:       mustDuration("HARU_KEYWORD_RELOAD_INTERVAL", 0),
		InsightGCInterval:   mustDuration("HARU_INSIGHT_GC_INTERVAL", 24*time.Hour),
		InsightRetention:    mustDuration("HARU_INSIGHT_RETENTION", 30*24*time.Hour),
		SessionIdleTTL:      mustDuration("HARU_SESSION_IDLE_TTL", 2*time.Hour),
		RateLimitBurst:      getenvInt("HARU_RATE_LIMIT_BURST", 20),
		RateLimitPerMinute:  getenvInt("HARU_RATE_LIMIT_PER_MIN", 120),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("HARU_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		TrustProxy:   mustBool("HARU_TRUST_PROXY", false),
	}

	switch cfg.StoreBackend {
	case BackendDisk, BackendMemory:
	case BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown HARU_STORE_BACKEND %q (want disk, redis or memory)", cfg.StoreBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// loadRedis reads the Redis settings, which are only required for the redis backend.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("HARU_REDIS_ADDR")
	cfg.RedisUser = getenv("HARU_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("HARU_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("HARU_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("HARU_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: HARU_REDIS_PASSWORD is required when HARU_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	for _, f := range []*string{&cp.RedisPassword, &cp.SpotifyClientSecret, &cp.GeminiAPIKey} {
		if *f != "" {
			*f = "***REDACTED***"
		}
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustLocation(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, v))
	}
	return loc
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "harunode")
	}
	return ".harunode"
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
