package main

import (
	"os"

	"github.com/recruitflow/recruitflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
