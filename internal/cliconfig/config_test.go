package cliconfig

import "testing"

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  CLIConfig
		wantErr string
	}{
		{name: "valid defaults", config: *NewDefault(), wantErr: ""},
		{name: "port too high", config: CLIConfig{Port: 70000}, wantErr: "port 70000 is out of range"},
		{name: "port negative", config: CLIConfig{Port: -1}, wantErr: "port -1 is out of range"},
		{name: "zero port allowed", config: CLIConfig{Port: 0}, wantErr: ""},
		{name: "negative delay rejected", config: CLIConfig{RequestLoggingDelayMs: -1}, wantErr: "requestLoggingDelayMs -1 cannot be negative"},
		{name: "negative max log entries rejected", config: CLIConfig{MaxLogEntries: -1}, wantErr: "maxLogEntries -1 cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewDefault_TracksSources(t *testing.T) {
	cfg := NewDefault()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Sources["port"] != SourceDefault {
		t.Errorf("Sources[port] = %q, want %q", cfg.Sources["port"], SourceDefault)
	}
}

func TestMergeConfig_OnlyAppliesNonZeroFields(t *testing.T) {
	target := NewDefault()
	source := &CLIConfig{Port: 9090, ProxyAll: "http://upstream.example"}

	MergeConfig(target, source, SourceLocal)

	if target.Port != 9090 {
		t.Errorf("Port = %d, want 9090 after merge", target.Port)
	}
	if target.Sources["port"] != SourceLocal {
		t.Errorf("Sources[port] = %q, want %q", target.Sources["port"], SourceLocal)
	}
	if target.ProxyAll != "http://upstream.example" {
		t.Errorf("ProxyAll = %q", target.ProxyAll)
	}
	if target.MaxLogEntries != DefaultMaxLogEntries {
		t.Errorf("MaxLogEntries should be unaffected by merge, got %d", target.MaxLogEntries)
	}
}

func TestMergeConfig_NilSourceIsNoOp(t *testing.T) {
	target := NewDefault()
	MergeConfig(target, nil, SourceLocal)
	if target.Port != DefaultPort {
		t.Errorf("MergeConfig with nil source mutated target: %+v", target)
	}
}

func TestFindLineColumn(t *testing.T) {
	data := []byte("line one\nline two\nline three")
	line, col := FindLineColumn(data, int64(len("line one\nline ")))
	if line != 2 || col != 6 {
		t.Errorf("FindLineColumn = (%d, %d), want (2, 6)", line, col)
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Path: "/tmp/.mockdrc.json", Line: 3, Column: 5, Message: "unexpected token"}
	want := "/tmp/.mockdrc.json (line 3, column 5): unexpected token"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
