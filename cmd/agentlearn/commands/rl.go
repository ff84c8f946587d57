package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentkit/agentlearn/internal/infrastructure/persistence"
	"github.com/agentkit/agentlearn/pkg/agentlearn"
)

// Flag variables for rl commands
var (
	rlAgentID      string
	rlExportOutput string
	rlImportFile   string
)

// RLCmd is the parent command for reinforcement learning subcommands.
var RLCmd = &cobra.Command{
	Use:   "rl",
	Short: "Reinforcement learning table management",
	Long: `Commands for inspecting and managing the learned Q-table.

The learner stores per-agent value estimates for (state, action) pairs.
Snapshots round-trip through JSON so tables can be inspected, shared,
and restored.`,
}

var rlStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for an agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := requireStore()
		if err != nil {
			return err
		}
		defer engine.Close()

		// An agent with no saved snapshot reports an empty table.
		if _, err := engine.LoadQTable(rlAgentID); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("failed to load table for %q: %w", rlAgentID, err)
		}
		stats := engine.LearnerStatistics(rlAgentID)

		if jsonOutput {
			return printJSON(stats)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Agent:\t%s\n", rlAgentID)
		fmt.Fprintf(w, "Table size:\t%d\n", stats.TableSize)
		fmt.Fprintf(w, "Total updates:\t%d\n", stats.TotalUpdates)
		fmt.Fprintf(w, "Epsilon:\t%.4f\n", stats.Epsilon)
		fmt.Fprintf(w, "Average reward:\t%.4f\n", stats.AverageReward)
		fmt.Fprintf(w, "Trend:\t%s\n", stats.Trend)
		return w.Flush()
	},
}

var rlExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an agent's Q-table as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := requireStore()
		if err != nil {
			return err
		}
		defer engine.Close()

		restored, err := engine.LoadQTable(rlAgentID)
		if err != nil {
			return fmt.Errorf("failed to load table for %q: %w", rlAgentID, err)
		}
		export := engine.ExportQTable()

		if rlExportOutput == "" || rlExportOutput == "-" {
			return printJSON(export)
		}
		data, err := marshalIndent(export)
		if err != nil {
			return err
		}
		if err := os.WriteFile(rlExportOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported %d entries to %s\n", restored, rlExportOutput)
		return nil
	},
}

var rlImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a Q-table snapshot for an agent",
	Long:  `Import a JSON Q-table snapshot from a file (or stdin with "-") and persist it for the agent. Malformed entries are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := requireStore()
		if err != nil {
			return err
		}
		defer engine.Close()

		var export agentlearn.QTableExport
		if err := readJSONInput(rlImportFile, &export); err != nil {
			return err
		}
		imported := engine.ImportQTable(export)
		if err := engine.SaveQTable(rlAgentID); err != nil {
			return fmt.Errorf("failed to persist table for %q: %w", rlAgentID, err)
		}
		fmt.Printf("Imported %d entries for agent %s\n", imported, rlAgentID)
		return nil
	},
}

var rlResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset an agent's persisted Q-table",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := requireStore()
		if err != nil {
			return err
		}
		defer engine.Close()

		engine.ImportQTable(agentlearn.QTableExport{})
		if err := engine.SaveQTable(rlAgentID); err != nil {
			return fmt.Errorf("failed to reset table for %q: %w", rlAgentID, err)
		}
		fmt.Printf("Reset Q-table for agent %s\n", rlAgentID)
		return nil
	},
}

func init() {
	rlStatsCmd.Flags().StringVarP(&rlAgentID, "agent", "a", "default", "agent whose table to load")
	rlExportCmd.Flags().StringVarP(&rlAgentID, "agent", "a", "default", "agent whose table to export")
	rlExportCmd.Flags().StringVarP(&rlExportOutput, "output", "o", "", "output file (default stdout)")
	rlImportCmd.Flags().StringVarP(&rlAgentID, "agent", "a", "default", "agent to import the table for")
	rlImportCmd.Flags().StringVarP(&rlImportFile, "file", "f", "-", "snapshot file (\"-\" for stdin)")
	rlResetCmd.Flags().StringVarP(&rlAgentID, "agent", "a", "default", "agent whose table to reset")

	RLCmd.AddCommand(rlStatsCmd)
	RLCmd.AddCommand(rlExportCmd)
	RLCmd.AddCommand(rlImportCmd)
	RLCmd.AddCommand(rlResetCmd)
}
