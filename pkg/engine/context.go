package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/getmockd/mockd/internal/store"
	"github.com/getmockd/mockd/pkg/logging"
	"github.com/getmockd/mockd/pkg/requestlog"
	"github.com/getmockd/mockd/pkg/respgen"
	"github.com/getmockd/mockd/pkg/scenario"
	"github.com/getmockd/mockd/pkg/template"
)

// Settings are the server's runtime-tunable knobs (spec.md 4.6/4.10),
// read fresh for every request rather than cached, so an admin change
// takes effect on the next request without restarting the server.
type Settings struct {
	PerfectThreshold    float64
	AllowPartialMatches bool
	GlobalDelay         time.Duration
	FallbackStatusCode  int

	// RequestLogDelay holds a completed entry back from Requests before
	// committing it, so a client's own request doesn't race its own
	// GET /__admin/requests poll (spec.md 6, PUT /__admin/settings).
	RequestLogDelay time.Duration

	// ProxyAllUpstream, when set, answers any request with no matching
	// mapping by forwarding it here instead of FallbackStatusCode
	// (spec.md 6, "--proxy-all <url>").
	ProxyAllUpstream string

	// SaveProxyAllHits persists each proxy-all response as a new static
	// mapping (spec.md 6, "--save-mapping").
	SaveProxyAllHits bool
}

// DefaultSettings returns the spec's defaults: perfect-match threshold
// 1.0, partial matches disabled, no global delay, 404 fallback.
func DefaultSettings() Settings {
	return Settings{
		PerfectThreshold:   DefaultPerfectThreshold,
		FallbackStatusCode: 404,
	}
}

// ServerContext is the explicit value threaded through the matching
// algorithm and response generator in place of package-level globals
// (spec.md 9: "Re-model as a ServerContext value passed explicitly to the
// matcher/generator; tests construct independent contexts").
type ServerContext struct {
	Store     *store.MappingStore
	Scenarios *scenario.Table
	Requests  *requestlog.Store
	Template  *template.Engine
	Generator *respgen.Generator
	Log       *slog.Logger

	settingsMu sync.RWMutex
	settings   Settings
}

// NewServerContext wires a fresh, independent set of collaborators —
// every test and every running server gets its own, never a shared
// global (spec.md 9).
func NewServerContext() *ServerContext {
	mappingStore := store.NewMappingStore()
	scenarios := scenario.NewTable()
	tmplEngine := template.New()

	return &ServerContext{
		Store:     mappingStore,
		Scenarios: scenarios,
		Requests:  requestlog.New(requestlog.DefaultCapacity),
		Template:  tmplEngine,
		Generator: &respgen.Generator{
			Template:  tmplEngine,
			Scenarios: scenarios,
			Proxy:     respgen.NewProxyRoundTripper(),
			SaveOnHit: mappingStore,
		},
		settings: DefaultSettings(),
		Log:      logging.Nop(),
	}
}

// Settings returns the current runtime-tunable settings.
func (c *ServerContext) Settings() Settings {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.settings
}

// SetSettings replaces the current settings wholesale (spec.md 6,
// PUT /__admin/settings), taking effect on the next request.
func (c *ServerContext) SetSettings(s Settings) {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()
	c.settings = s
}
