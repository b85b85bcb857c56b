// Command mockd serves mocked HTTP responses from a set of
// request/response mappings, configurable via its admin API or a
// directory of static mapping files.
package main

import "github.com/getmockd/mockd/pkg/cli"

// Version, Commit, and BuildDate are set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Execute()
}
