package main

import (
	"os"

	"github.com/dori/duotask/internal/cli"
)

var version = "0.1.0"

func main() {
	rootCmd := cli.NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
