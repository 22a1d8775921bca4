// Package main is the entry point for the vps-compare CLI.
package main

import (
	"fmt"
	"os"

	"github.com/vps-compare/internal/cli"
)

func main() {
	app := cli.New()
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
