// Package main provides the CLI entry point for agentlearn.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentkit/agentlearn/cmd/agentlearn/commands"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agentlearn",
	Short: "Agentlearn - adaptive learning engine for agent behavior",
	Long: `Agentlearn mines behavioral patterns from recorded agent actions,
scores them with a success weighting system, and learns action
preferences with tabular reinforcement learning.

It provides:
  - Pattern recognition with statistical validation
  - Multi-factor success weighting with confidence intervals
  - Epsilon-greedy action selection over a learned Q-table
  - Segmented bounded caches with LRU and LFU eviction
  - SQLite persistence for patterns, records, and table snapshots`,
	Version: version,
}

func init() {
	commands.RegisterGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.RLCmd)
	rootCmd.AddCommand(commands.PatternsCmd)
	rootCmd.AddCommand(commands.WeightsCmd)
	rootCmd.AddCommand(commands.CacheCmd)
}
