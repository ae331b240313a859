package main

import (
	"os"

	"github.com/dealflow/dealgrid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
