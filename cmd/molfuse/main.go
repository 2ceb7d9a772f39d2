package main

import (
	"os"

	"github.com/molfuse/molfuse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
