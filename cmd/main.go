package main

import (
	"os"

	"github.com/Croissanton/Quiziosity/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
