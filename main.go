package main

import (
	"os"

	"github.com/legistyr/termbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
