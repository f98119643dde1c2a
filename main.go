package main

import (
	"os"

	"github.com/Kariqs/amexan-eats/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
