// SPDX-License-Identifier: MIT

// Command citysim runs the transit ridership simulation headless and answers
// route queries against a topology.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "citysim",
		Short: "Agent-based transit ridership simulation",
		Long: `citysim moves synthetic commuters through a transit network.

Citizens spawn between stations in proportion to ridership, follow routes
that avoid needless line changes, queue at platforms and ride trains that
shuttle along their lines.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("topology", "", "YAML topology file")
	rootCmd.PersistentFlags().Int("random", 0, "generate a random city with this many stations instead of --topology")
	rootCmd.PersistentFlags().Int("lines", 0, "number of lines for --random (default stations/6+1)")
	rootCmd.PersistentFlags().String("log-level", "", "override logging.level")

	rootCmd.AddCommand(
		newRunCmd(),
		newRouteCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "citysim version %s\n", version)
		},
	}
}
