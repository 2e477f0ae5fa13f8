package main

import (
	"os"

	"github.com/sbtext-lang/sbtextc/cmd/sbtextc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
