package main

import (
	"os"

	"github.com/contentloop/contentloop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
