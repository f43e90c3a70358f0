package main

import (
	"os"

	"github.com/kiranshivaraju/voice2code/cmd/voice2code/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
