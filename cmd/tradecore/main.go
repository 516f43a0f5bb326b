package main

import (
	"os"

	"github.com/ahmadakra1997/tradecore/cmd/tradecore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
