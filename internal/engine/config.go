// Package engine is the update engine (spec section 4.4): it schedules
// per-list refreshes, builds size-bounded ranged download requests,
// follows redirects to bulk chunk payloads, applies add/sub/reset
// operations to the chunk store, and persists retry timers across
// restarts via scratch.
package engine

import (
	"net/http"
	"time"
)

// Config is the library-level configuration every enumerated option of
// spec section 6 maps onto. cmd/urlguard-mirror's flags are a thin
// pflag wrapper over this struct.
type Config struct {
	// Server is the list service's base URL (required).
	Server string

	// APIKey is the list service API key (required).
	APIKey string

	// Version is the protocol version string sent as "pver".
	Version string

	// AppVer is the client application version string sent as "appver".
	AppVer string

	// DataFilePath is the scratch database file path.
	DataFilePath string

	// HTTPTimeout is the per-request timeout.
	HTTPTimeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// CacheTime mirrors hashcache.Config.CacheTime, the override of the
	// server's CACHELIFETIME for full-hash resolution (spec section 3,
	// invariant 5). The engine itself does not read it; the override
	// takes effect only through the resolver's own Config.
	CacheTime time.Duration

	// DefaultRetry is the fallback poll interval used when the server
	// omits an "n:" directive.
	DefaultRetry time.Duration

	// HTTPClient overrides the transport's *http.Client; see
	// httpclient.Config.HTTPClient. Tests use this, production code
	// leaves it nil.
	HTTPClient *http.Client
}

// withDefaults returns a copy of cfg with zero-valued fields replaced
// by their spec-mandated defaults.
func (cfg Config) withDefaults() Config {
	if cfg.Version == "" {
		cfg.Version = "3.0"
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}

	if cfg.DefaultRetry <= 0 {
		cfg.DefaultRetry = 30 * time.Second
	}

	return cfg
}
