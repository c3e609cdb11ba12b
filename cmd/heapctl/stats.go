package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Show heap statistics after running a trace",
		Long: `The stats command runs an allocation trace and reports the end state of
the heap: free and allocated bytes, block counts, the largest free block,
and how fragmented the chain ended up.

Example:
  heapctl stats boot.trace
  heapctl stats boot.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	h, results, err := runTrace(args[0])
	if err != nil {
		return err
	}
	s := h.Stats()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"trace":            args[0],
			"operations":       len(results),
			"regions":          s.Regions,
			"free_bytes":       s.FreeBytes,
			"allocated_bytes":  s.AllocatedBytes,
			"free_blocks":      s.FreeBlocks,
			"allocated_blocks": s.AllocatedBlocks,
			"largest_free":     s.LargestFree,
		})
	}

	printInfo("Trace:            %s (%d operations)\n", args[0], len(results))
	printInfo("Regions:          %d\n", s.Regions)
	printInfo("Free:             %d B in %d block(s)\n", s.FreeBytes, s.FreeBlocks)
	printInfo("Allocated:        %d B in %d block(s)\n", s.AllocatedBytes, s.AllocatedBlocks)
	printInfo("Largest free:     %d B\n", s.LargestFree)
	if s.FreeBytes > 0 {
		// Free space beyond the largest block is unusable for a single
		// large request; that ratio is the practical fragmentation cost.
		wasted := s.FreeBytes - s.LargestFree
		printInfo("Fragmented:       %d B (%.1f%%)\n",
			wasted, float64(wasted)*100/float64(s.FreeBytes))
	}
	return nil
}
