// Package main is the entry point for the dispatchboard CLI.
// The CLI is the dispatcher's terminal tool for the dispatchboard API.
package main

import (
	"os"

	"dispatchboard/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
