package main

import (
	"os"

	"github.com/stockresearcher/backend/cmd/researcher/commands"
)

// main is the entry point for the researcher CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
