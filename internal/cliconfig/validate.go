package cliconfig

import "fmt"

// Validate checks cfg for values that would make the server fail to start
// (spec.md 6: exit code 3, "invalid configuration"). Port 0 is allowed; the
// CLI layer binds ":0" as is, so the operating system picks a free port.
func (c *CLIConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.RequestLoggingDelayMs < 0 {
		return fmt.Errorf("requestLoggingDelayMs %d cannot be negative", c.RequestLoggingDelayMs)
	}
	if c.MaxLogEntries < 0 {
		return fmt.Errorf("maxLogEntries %d cannot be negative", c.MaxLogEntries)
	}
	return nil
}
