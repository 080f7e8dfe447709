package main

import (
	"os"
	_ "time/tzdata" // market hours need US/Eastern on zoneless hosts

	"github.com/rustyeddy/odyssey/cmd/odyssey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
