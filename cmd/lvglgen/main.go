// Package main provides the lvglgen command.
package main

import (
	"os"

	"github.com/leapstack-labs/lvglgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
