package main

import (
	"os"

	"github.com/transvia/copiloto/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
