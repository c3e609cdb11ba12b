package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootheap/internal/physmem"
	"github.com/joshuapare/bootheap/internal/trace"
	"github.com/joshuapare/bootheap/pkg/heap"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Run and inspect boot heap allocation traces",
	Long: `heapctl runs allocation traces against the boot heap allocator and
reports what the block chain looks like afterwards. Traces are small text
scripts declaring a firmware memory map plus a sequence of alloc and free
operations, which makes allocator behavior reproducible and diffable.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadTrace parses the trace script at path.
func loadTrace(path string) ([]trace.Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return nil, err
	}
	printVerbose("Loaded %d trace directives from %s\n", len(ops), path)
	return ops, nil
}

// runTrace executes the trace at path against a freshly seeded heap.
func runTrace(path string) (*heap.Heap, []trace.Result, error) {
	ops, err := loadTrace(path)
	if err != nil {
		return nil, nil, err
	}
	h := heap.New()
	results, err := trace.Run(h, physmem.NewSim(), ops)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to run trace: %w", err)
	}
	return h, results, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
