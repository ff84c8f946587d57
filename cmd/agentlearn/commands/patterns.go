package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentkit/agentlearn/pkg/agentlearn"
)

// Flag variables for patterns commands
var (
	patternsAgentID string
	patternsInput   string
	patternsSave    bool
)

// PatternsCmd is the parent command for pattern recognition subcommands.
var PatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Pattern recognition over recorded actions",
	Long: `Commands for mining behavioral patterns from recorded agent actions.

Input is a JSON array of action records. Actions are grouped into
sequences split at idle gaps, recurring subsequences are counted, and
only statistically significant candidates become patterns.`,
}

var patternsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Mine patterns from recorded actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		var actions []agentlearn.ActionRecord
		if err := readJSONInput(patternsInput, &actions); err != nil {
			return err
		}

		patterns := engine.MinePatterns(actions, patternsAgentID)
		if patternsSave {
			store := engine.Store()
			if store == nil {
				return fmt.Errorf("--save needs a store; pass --store or set storePath in the config")
			}
			for _, p := range patterns {
				if err := store.SavePattern(p); err != nil {
					return fmt.Errorf("failed to save pattern %s: %w", p.ID, err)
				}
			}
		}

		if jsonOutput {
			return printJSON(patterns)
		}
		if len(patterns) == 0 {
			fmt.Println("No significant patterns found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTEPS\tCONFIDENCE")
		for _, p := range patterns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
				p.ID, p.Body.Type, strings.Join(p.Body.Approach.Steps, " > "), p.Evolution.ConfidenceScore)
		}
		return w.Flush()
	},
}

var patternsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report significance for every recurring subsequence",
	Long:  `Extract sequences from recorded actions and report the frequency and p-value of each recurring subsequence, without building patterns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		var actions []agentlearn.ActionRecord
		if err := readJSONInput(patternsInput, &actions); err != nil {
			return err
		}

		sequences := engine.ExtractSequences(actions, patternsAgentID)
		candidates := engine.FindCommonSubsequences(sequences)

		type report struct {
			Signature string  `json:"signature"`
			Frequency int     `json:"frequency"`
			Valid     bool    `json:"valid"`
			PValue    float64 `json:"pValue"`
		}
		reports := make([]report, 0, len(candidates))
		for _, candidate := range candidates {
			result := engine.ValidatePattern(candidate, nil)
			reports = append(reports, report{
				Signature: candidate.Signature(),
				Frequency: candidate.Frequency,
				Valid:     result.Valid,
				PValue:    result.PValue,
			})
		}

		if jsonOutput {
			return printJSON(reports)
		}
		if len(reports) == 0 {
			fmt.Println("No recurring subsequences found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SIGNATURE\tFREQ\tP-VALUE\tVALID")
		for _, r := range reports {
			fmt.Fprintf(w, "%s\t%d\t%.4f\t%v\n", r.Signature, r.Frequency, r.PValue, r.Valid)
		}
		return w.Flush()
	},
}

func init() {
	patternsExtractCmd.Flags().StringVarP(&patternsAgentID, "agent", "a", "default", "agent whose actions to mine")
	patternsExtractCmd.Flags().StringVarP(&patternsInput, "file", "f", "-", "actions JSON file (\"-\" for stdin)")
	patternsExtractCmd.Flags().BoolVar(&patternsSave, "save", false, "persist mined patterns to the store")
	patternsValidateCmd.Flags().StringVarP(&patternsAgentID, "agent", "a", "default", "agent whose actions to check")
	patternsValidateCmd.Flags().StringVarP(&patternsInput, "file", "f", "-", "actions JSON file (\"-\" for stdin)")

	PatternsCmd.AddCommand(patternsExtractCmd)
	PatternsCmd.AddCommand(patternsValidateCmd)
}
