package main

import (
	"os"

	"github.com/isaac-sh/isaac/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
