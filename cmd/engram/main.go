package main

import (
	"os"

	"github.com/engram-oss/engram/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
