package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootheap/internal/trace"
	"github.com/joshuapare/bootheap/pkg/types"
)

func init() {
	rootCmd.AddCommand(newRegionsCmd())
}

func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions <trace>",
		Short: "Summarize the memory map a trace declares",
		Long: `The regions command lists the firmware memory map declared by a trace and
prints the per-class page totals plus the usable memory headline, the same
summary boot code prints before seeding the heap.

Example:
  heapctl regions boot.trace
  heapctl regions boot.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(args)
		},
	}
	return cmd
}

func runRegions(args []string) error {
	ops, err := loadTrace(args[0])
	if err != nil {
		return err
	}
	regions := trace.Regions(ops)
	summary := types.Summarize(regions)

	if jsonOut {
		perClass := make(map[string]uint64, len(summary.PagesByClass))
		for class, pages := range summary.PagesByClass {
			perClass[class.String()] = pages
		}
		return printJSON(map[string]interface{}{
			"trace":          args[0],
			"regions":        len(regions),
			"pages_by_class": perClass,
			"usable_pages":   summary.UsablePages,
			"usable_mib":     summary.UsableMiB(),
		})
	}

	for _, r := range regions {
		printInfo("%s\n", r)
	}
	printInfo("\n")

	classes := make([]types.RegionClass, 0, len(summary.PagesByClass))
	for class := range summary.PagesByClass {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	for _, class := range classes {
		printInfo("%-19s %8d pages\n", class, summary.PagesByClass[class])
	}
	printInfo("Total memory size: %d MiB usable\n", summary.UsableMiB())
	return nil
}
