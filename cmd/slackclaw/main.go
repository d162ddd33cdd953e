// Package main is the entry point for the slackclaw CLI.
package main

import (
	"os"

	"github.com/slackclaw/slackclaw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
