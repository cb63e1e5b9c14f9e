// Package main is the entry point for the cloudbasket CLI.
package main

import (
	"os"

	"cloudbasket/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
