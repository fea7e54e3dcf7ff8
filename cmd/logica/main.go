package main

import (
	"os"

	"github.com/chazu/logica/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
