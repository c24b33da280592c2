package main

import (
	"os"

	"github.com/imishinist/n8n-timings/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
