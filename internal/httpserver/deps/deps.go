package deps

import (
	"time"

	"github.com/MrSnakeDoc/harunode/internal/insight"
	"github.com/MrSnakeDoc/harunode/internal/journal"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
	"github.com/MrSnakeDoc/harunode/internal/store"
)

// KeywordStatus reports the state of the keyword table loader.
type KeywordStatus interface {
	Status() (time.Time, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedCIDRS    []string // IPs allowed to reach the API
	TrustProxy      bool     // true if running behind a trusted reverse proxy
	RateLimitBurst  int      // per-IP burst, 0 disables the limiter
	RateLimitPerMin int      // per-IP refill rate

	StoreBackend  string         // disk | redis | memory
	KV            store.KV       // device key-value storage
	Journal       *journal.Store // activity log
	Engine        *recommend.Engine
	Sessions      *recommend.Sessions
	Insights      *insight.Cache
	Keywords      KeywordStatus // keyword table loader, nil when unused
	CatalogReady  bool          // false when the music catalog has no credentials
	TextReady     bool          // false when text generation runs offline
	ReloadTrigger chan struct{} // Channel to trigger a manual keyword reload
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
