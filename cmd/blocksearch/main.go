// Package main provides the entry point for the blocksearch CLI.
package main

import (
	"os"

	"github.com/jonwraymond/toolboxsearch/cmd/blocksearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
