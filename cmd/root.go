// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the spectral command. Its children read their settings from flags, environment
// variables prefixed with PROCGRAPH and an optional yaml config file, in that order.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "spectral",
		Short:        "Spectral clustering of points built from composable processors",
		SilenceUsage: true,
	}
}
