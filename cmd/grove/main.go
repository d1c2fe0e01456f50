// Package main provides the entry point for the grove CLI.
package main

import (
	"os"

	"github.com/grovestore/grove/cmd/grove/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
