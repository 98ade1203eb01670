package main

import (
	"os"

	"github.com/templui/inkpost/cmd/inkpost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
