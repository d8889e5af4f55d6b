package main

import (
	"os"

	"github.com/kitikazis/ELAC-Lectura/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
