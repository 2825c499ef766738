package main

import (
	"os"

	"github.com/askiada/go-procgraph/cmd"
	"github.com/askiada/go-procgraph/cmd/run"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	runCmd := run.NewRunCommand()
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
