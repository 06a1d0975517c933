package main

import (
	"os"

	"eventlog/cmd/eventlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
