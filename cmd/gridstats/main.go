// Package main is the gridstats CLI entrypoint.
package main

import (
	"os"

	"github.com/gridiron-labs/gridstats/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
