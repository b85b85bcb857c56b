package cliconfig

// Default values for every CLIConfig field with a non-zero default.
const (
	DefaultPort                  = 8080
	DefaultAdminEnabled          = true
	DefaultMaxLogEntries         = 1000
	DefaultRequestLoggingDelayMs = 0
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "text"
)

// NewDefault returns a CLIConfig populated with default values, every field
// with a non-zero default recorded as SourceDefault.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Port:          DefaultPort,
		AdminEnabled:  DefaultAdminEnabled,
		MaxLogEntries: DefaultMaxLogEntries,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Sources:       make(map[string]string),
	}
	for _, field := range []string{"port", "admin", "maxLogEntries", "logLevel", "logFormat"} {
		cfg.Sources[field] = SourceDefault
	}
	return cfg
}
