package main

import (
	"os"

	"github.com/nctirs/nctirs-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
