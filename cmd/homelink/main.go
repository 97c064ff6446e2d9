package main

import (
	"os"

	"github.com/arthur-debert/homelink/cmd/homelink/commands"
	"github.com/arthur-debert/homelink/pkg/output"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
