package cliconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// LocalConfigFileName is the name of the local config file.
	LocalConfigFileName = ".mockdrc.json"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = "mockd"
	// GlobalConfigFileName is the name of the global config file.
	GlobalConfigFileName = "config.json"
)

// FindLocalConfig searches for .mockdrc.json in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cwd, LocalConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// FindGlobalConfig returns the path to the global config file, or "" if
// none exists.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	path := filepath.Join(configDir, GlobalConfigDir, GlobalConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// ConfigError reports a configuration file error with its location.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// FindLineColumn finds the 1-indexed line and column for a byte offset,
// for turning a json.SyntaxError's Offset into a human-readable location.
func FindLineColumn(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset && int(i) < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// LoadConfigFile loads a CLIConfig from a JSON file, reporting syntax
// errors with line/column information.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			line, col := FindLineColumn(data, syntaxErr.Offset)
			return nil, &ConfigError{Path: path, Line: line, Column: col, Message: syntaxErr.Error()}
		}
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// MergeConfig merges non-zero values from source into target, recording
// sourceType against every field source actually overrides.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Port != 0 {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if source.AdminEnabled {
		target.AdminEnabled = true
		target.Sources["admin"] = sourceType
	}
	if len(source.URLs) > 0 {
		target.URLs = source.URLs
		target.Sources["urls"] = sourceType
	}
	if source.ReadStaticMappings != "" {
		target.ReadStaticMappings = source.ReadStaticMappings
		target.Sources["readStaticMappings"] = sourceType
	}
	if source.WatchStaticMappings {
		target.WatchStaticMappings = true
		target.Sources["watchStaticMappings"] = sourceType
	}
	if source.ProxyAll != "" {
		target.ProxyAll = source.ProxyAll
		target.Sources["proxyAll"] = sourceType
	}
	if source.SaveMapping {
		target.SaveMapping = true
		target.Sources["saveMapping"] = sourceType
	}
	if source.AllowPartialMapping {
		target.AllowPartialMapping = true
		target.Sources["allowPartialMapping"] = sourceType
	}
	if source.RequestLoggingDelayMs != 0 {
		target.RequestLoggingDelayMs = source.RequestLoggingDelayMs
		target.Sources["requestLoggingDelayMs"] = sourceType
	}
	if source.MaxLogEntries != 0 {
		target.MaxLogEntries = source.MaxLogEntries
		target.Sources["maxLogEntries"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.Verbose {
		target.Verbose = true
		target.Sources["verbose"] = sourceType
	}
	if source.LokiURL != "" {
		target.LokiURL = source.LokiURL
		target.Sources["lokiUrl"] = sourceType
	}
}

// LoadAll loads configuration from every source and merges them.
// Precedence: flags (applied by the caller afterward) > env > local
// config file > global config file > defaults.
func LoadAll() (*CLIConfig, error) {
	cfg := NewDefault()

	if globalPath, err := FindGlobalConfig(); err == nil && globalPath != "" {
		if globalCfg, err := LoadConfigFile(globalPath); err == nil {
			MergeConfig(cfg, globalCfg, SourceGlobal)
		}
	}

	if localPath, err := FindLocalConfig(); err == nil && localPath != "" {
		if localCfg, err := LoadConfigFile(localPath); err == nil {
			MergeConfig(cfg, localCfg, SourceLocal)
		}
	}

	LoadEnvConfig(cfg)

	return cfg, nil
}
