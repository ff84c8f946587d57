package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentkit/agentlearn/internal/infrastructure/cache"
)

// CacheCmd is the parent command for cache subcommands.
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache segment layout and statistics",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-segment cache counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		segments := engine.SegmentStats()
		if jsonOutput {
			return printJSON(map[string]interface{}{
				"segments": segments,
				"combined": engine.CacheStats(),
			})
		}

		names := make([]string, 0, len(segments))
		for name := range segments {
			names = append(names, string(name))
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEGMENT\tSIZE\tMAX\tHITS\tMISSES\tEVICTIONS\tHIT RATE")
		for _, name := range names {
			s := segments[cache.SegmentName(name)]
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f%%\n",
				name, s.Size, s.MaxSize, s.Hits, s.Misses, s.Evictions, s.HitRate*100)
		}
		combined := engine.CacheStats()
		fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\t%d\t%.2f%%\n",
			combined.Size, combined.MaxSize, combined.Hits, combined.Misses, combined.Evictions, combined.HitRate*100)
		return w.Flush()
	},
}

func init() {
	CacheCmd.AddCommand(cacheStatsCmd)
}
