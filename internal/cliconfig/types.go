package cliconfig

// CLIConfig is the complete, merged configuration for the mockd server
// process (spec.md 6, "CLI surface"). Port through RequestLoggingDelayMs
// each map to one flag; MaxLogEntries, LogLevel, LogFormat, Verbose and
// LokiURL come only from config files and environment variables. See
// pkg/cli for the flag definitions and pkg/config for how
// ReadStaticMappings/WatchStaticMappings are consumed.
type CLIConfig struct {
	// Port is the mock-traffic HTTP listener port.
	Port int `json:"port"`

	// AdminEnabled mounts the /__admin surface on the same listener as
	// mock traffic (spec.md 6, "--admin"; spec.md 5 composes admin and
	// mock handling onto one listener rather than a second bind address).
	AdminEnabled bool `json:"admin"`

	// URLs are additional host:port addresses the mock-traffic listener
	// also binds to, beyond Port.
	URLs []string `json:"urls,omitempty"`

	// ReadStaticMappings is a directory of YAML/JSON mapping documents
	// loaded at startup.
	ReadStaticMappings string `json:"readStaticMappings,omitempty"`

	// WatchStaticMappings re-polls ReadStaticMappings for changes.
	WatchStaticMappings bool `json:"watchStaticMappings"`

	// ProxyAll is an upstream base URL that answers any request with no
	// matching mapping, instead of the configured fallback status.
	ProxyAll string `json:"proxyAll,omitempty"`

	// SaveMapping persists ProxyAll responses as new static mappings. A
	// per-mapping proxy with SaveOnFirstHit saves its responses whether or
	// not this is set.
	SaveMapping bool `json:"saveMapping"`

	// AllowPartialMapping lowers the matching algorithm's acceptance
	// threshold so a best-effort partial match can still win rather than
	// falling back to 404 (spec.md 9, Open Questions).
	AllowPartialMapping bool `json:"allowPartialMapping"`

	// RequestLoggingDelayMs delays request-log visibility by this many
	// milliseconds, so a client's own request doesn't race its own
	// GET /__admin/requests poll.
	RequestLoggingDelayMs int `json:"requestLoggingDelayMs"`

	// MaxLogEntries bounds the request log's retained entry count.
	MaxLogEntries int `json:"maxLogEntries"`

	// LogLevel and LogFormat configure pkg/logging.
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
	Verbose   bool   `json:"verbose"`

	// LokiURL, if set, additionally ships logs to a Loki push endpoint.
	LokiURL string `json:"lokiUrl,omitempty"`

	// Sources tracks where each value came from, keyed by JSON field name.
	Sources map[string]string `json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)
