// Package cli wires internal/cliconfig, pkg/config, pkg/engine, and
// pkg/admin into the mockd command-line entry point (spec.md 6, "CLI
// surface (boundary only)").
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is injected at build time via ldflags.
var Version = "dev"

var flags serveFlags

// rootCmd is mockd's entire CLI surface: one process that serves mocked
// HTTP responses until it receives a shutdown signal. There are no
// subcommands (spec.md 6 names flags only, no subcommand verbs).
var rootCmd = &cobra.Command{
	Use:   "mockd",
	Short: "mockd is a programmable HTTP stub server",
	Long: `mockd serves mocked HTTP responses from a set of request/response
mappings, configurable via its admin API or a directory of static mapping
files, with request logging and stateful scenarios.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
	RunE:          runServe,
}

func init() {
	flagSet := rootCmd.Flags()
	flagSet.IntVar(&flags.port, "port", 0, "mock-traffic HTTP listener port")
	flagSet.StringSliceVar(&flags.urls, "urls", nil, "additional host:port addresses to also bind")
	flagSet.BoolVar(&flags.admin, "admin", false, "enable the /__admin surface")
	flagSet.StringVar(&flags.readStaticMappings, "read-static-mappings", "", "directory of static mapping documents to load at startup")
	flagSet.BoolVar(&flags.watchStaticMappings, "watch-static-mappings", false, "re-poll --read-static-mappings for changes")
	flagSet.StringVar(&flags.proxyAll, "proxy-all", "", "upstream base URL answering any request with no matching mapping")
	flagSet.BoolVar(&flags.saveMapping, "save-mapping", false, "persist proxied responses as new static mappings")
	flagSet.BoolVar(&flags.allowPartialMapping, "allow-partial-mapping", false, "accept a best-effort partial match rather than falling back")
	flagSet.IntVar(&flags.requestLoggingDelayMs, "request-logging-delay", 0, "delay request-log visibility by this many milliseconds")
}

// exitCodeError pairs an error with the process exit code it should
// produce (spec.md 6: "0 clean shutdown, 2 bind failure, 3 invalid
// configuration").
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	if ec, ok := err.(*exitCodeError); ok {
		return ec.code
	}
	return 1
}

// Execute runs the root command and exits the process on failure. It is
// the only entry point cmd/mockd/main.go calls.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
