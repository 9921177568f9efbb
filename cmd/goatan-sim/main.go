package main

import (
	"os"

	"goatan/cmd/goatan-sim/commands"
)

func main() {
	// Errors are printed by the commands package with color formatting
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
