package main

import (
	"os"

	"github.com/PabloGalante/mandalart-agent/internal/cli"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	// errors are printed by the printer package
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
