// Package main provides the entry point for the chorus CLI.
package main

import (
	"os"

	"github.com/chorus-search/chorus/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
