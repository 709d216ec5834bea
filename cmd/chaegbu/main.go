package main

import (
	"os"

	"github.com/chaegbu-dev/chaegbu/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
