// vmtransform CLI - render templated stub response bodies from the command line
package main

import (
	"github.com/getmockd/vmtransform/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.BuildDate = Version, Commit, BuildDate
	cli.Execute()
}
