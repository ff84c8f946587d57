package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentkit/agentlearn/pkg/agentlearn"
)

// Flag variables for weights commands
var (
	weightsPatternID string
	weightsInput     string
	weightsContext   string
)

// WeightsCmd is the parent command for success weighting subcommands.
var WeightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Success weighting for stored patterns",
	Long: `Commands for scoring patterns with the success weighting system.

A pattern's weight combines its success rate, recency, complexity, and
fit to the provided context, with a confidence interval sized by how
much evidence backs it.`,
}

var weightsScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a pattern",
	Long:  `Score a pattern loaded from the store by ID, or from a JSON file. Context is an optional JSON object of string values matched against the pattern's recorded context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		var pattern *agentlearn.Pattern
		switch {
		case weightsPatternID != "":
			store := engine.Store()
			if store == nil {
				return fmt.Errorf("scoring by ID needs a store; pass --store or set storePath in the config")
			}
			pattern, err = store.GetPattern(weightsPatternID)
			if err != nil {
				return fmt.Errorf("failed to load pattern %q: %w", weightsPatternID, err)
			}
		case weightsInput != "":
			pattern = &agentlearn.Pattern{}
			if err := readJSONInput(weightsInput, pattern); err != nil {
				return err
			}
		default:
			return fmt.Errorf("pass --id or --file")
		}

		var context agentlearn.ValueMap
		if weightsContext != "" {
			var raw map[string]string
			if err := readJSONInput(weightsContext, &raw); err != nil {
				return err
			}
			context = make(agentlearn.ValueMap, len(raw))
			for k, v := range raw {
				context[k] = agentlearn.StringValue(v)
			}
		}

		result := engine.ScorePattern(pattern, context, nil)
		if jsonOutput {
			return printJSON(result)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Pattern:\t%s\n", pattern.Name)
		fmt.Fprintf(w, "Weight:\t%.4f\n", result.TotalWeight)
		fmt.Fprintf(w, "Confidence:\t%.4f\n", result.Confidence)
		fmt.Fprintf(w, "Interval:\t[%.4f, %.4f]\n", result.Interval.Lower, result.Interval.Upper)
		fmt.Fprintf(w, "Recommendation:\t%s\n", result.Recommendation)
		fmt.Fprintf(w, "Base rate:\t%.4f\n", result.Factors.BaseRate)
		fmt.Fprintf(w, "Recency:\t%.4f\n", result.Factors.Recency)
		fmt.Fprintf(w, "Complexity:\t%.4f\n", result.Factors.Complexity)
		fmt.Fprintf(w, "Project fit:\t%.4f\n", result.Factors.ProjectFit)
		return w.Flush()
	},
}

func init() {
	weightsScoreCmd.Flags().StringVar(&weightsPatternID, "id", "", "pattern ID to load from the store")
	weightsScoreCmd.Flags().StringVarP(&weightsInput, "file", "f", "", "pattern JSON file (\"-\" for stdin)")
	weightsScoreCmd.Flags().StringVar(&weightsContext, "context", "", "context JSON file of string values (\"-\" for stdin)")

	WeightsCmd.AddCommand(weightsScoreCmd)
}
