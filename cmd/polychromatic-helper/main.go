// Package main is the entry point for the polychromatic-helper process.
//
// The helper relies on the default signal disposition: an interrupt
// terminates it immediately, leaving the device in its last-committed
// frame, which is the documented behavior.
package main

import (
	"os"

	"github.com/nightsky30/polychromatic/internal/cli"
)

func main() {
	// Single top-level exit point: every failure inside the CLI
	// propagates here as an error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
