package main

import (
	"os"

	"github.com/clearspend-dev/clearspend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
