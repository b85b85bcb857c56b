package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names, MOCKD_-prefixed per spec.md 6.
const (
	EnvPort                  = "MOCKD_PORT"
	EnvAdmin                 = "MOCKD_ADMIN"
	EnvReadStaticMappings    = "MOCKD_READ_STATIC_MAPPINGS"
	EnvWatchStaticMappings   = "MOCKD_WATCH_STATIC_MAPPINGS"
	EnvProxyAll              = "MOCKD_PROXY_ALL"
	EnvSaveMapping           = "MOCKD_SAVE_MAPPING"
	EnvAllowPartialMapping   = "MOCKD_ALLOW_PARTIAL_MAPPING"
	EnvRequestLoggingDelayMs = "MOCKD_REQUEST_LOGGING_DELAY_MS"
	EnvMaxLogEntries         = "MOCKD_MAX_LOG_ENTRIES"
	EnvLogLevel              = "MOCKD_LOG_LEVEL"
	EnvLogFormat             = "MOCKD_LOG_FORMAT"
	EnvVerbose               = "MOCKD_VERBOSE"
	EnvLokiURL               = "MOCKD_LOKI_URL"
)

func envBool(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

// LoadEnvConfig applies MOCKD_* environment variables onto cfg, recording
// each overridden field's source as SourceEnv. Only variables actually
// present in the environment are applied.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Sources["port"] = SourceEnv
		}
	}
	if v := os.Getenv(EnvAdmin); v != "" {
		cfg.AdminEnabled = envBool(v)
		cfg.Sources["admin"] = SourceEnv
	}
	if v := os.Getenv(EnvReadStaticMappings); v != "" {
		cfg.ReadStaticMappings = v
		cfg.Sources["readStaticMappings"] = SourceEnv
	}
	if v := os.Getenv(EnvWatchStaticMappings); v != "" {
		cfg.WatchStaticMappings = envBool(v)
		cfg.Sources["watchStaticMappings"] = SourceEnv
	}
	if v := os.Getenv(EnvProxyAll); v != "" {
		cfg.ProxyAll = v
		cfg.Sources["proxyAll"] = SourceEnv
	}
	if v := os.Getenv(EnvSaveMapping); v != "" {
		cfg.SaveMapping = envBool(v)
		cfg.Sources["saveMapping"] = SourceEnv
	}
	if v := os.Getenv(EnvAllowPartialMapping); v != "" {
		cfg.AllowPartialMapping = envBool(v)
		cfg.Sources["allowPartialMapping"] = SourceEnv
	}
	if v := os.Getenv(EnvRequestLoggingDelayMs); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.RequestLoggingDelayMs = ms
			cfg.Sources["requestLoggingDelayMs"] = SourceEnv
		}
	}
	if v := os.Getenv(EnvMaxLogEntries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxLogEntries = n
			cfg.Sources["maxLogEntries"] = SourceEnv
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Verbose = envBool(v)
		cfg.Sources["verbose"] = SourceEnv
	}
	if v := os.Getenv(EnvLokiURL); v != "" {
		cfg.LokiURL = v
		cfg.Sources["lokiUrl"] = SourceEnv
	}
}
