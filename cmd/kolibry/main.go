// Package main provides the entry point for the Kolibry CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kolibry/kolibry/cmd/kolibry/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
