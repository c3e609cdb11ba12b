package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bootheap/internal/trace"
	"github.com/joshuapare/bootheap/pkg/types"
)

var simContinue bool

func init() {
	cmd := newSimCmd()
	cmd.Flags().BoolVar(&simContinue, "continue", false, "Keep executing after a failed allocation")
	rootCmd.AddCommand(cmd)
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim <trace>",
		Short: "Run a trace and report each operation's outcome",
		Long: `The sim command runs an allocation trace and prints one line per heap
operation: the address handed out, or the failure for allocations that the
heap could not satisfy.

Example:
  heapctl sim boot.trace
  heapctl sim boot.trace --continue
  heapctl sim boot.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(args)
		},
	}
	return cmd
}

type simResult struct {
	Line int    `json:"line"`
	Op   string `json:"op"`
	Name string `json:"name"`
	Addr string `json:"addr,omitempty"`
	Err  string `json:"error,omitempty"`
}

func runSim(args []string) error {
	_, results, err := runTrace(args[0])
	if err != nil {
		return err
	}

	var out []simResult
	failed := 0
	for _, r := range results {
		sr := simResult{Line: r.Op.Line, Name: r.Op.Name}
		switch r.Op.Kind {
		case trace.OpAlloc:
			sr.Op = "alloc"
		case trace.OpFree:
			sr.Op = "free"
		}
		if r.Err != nil {
			failed++
			sr.Err = r.Err.Error()
		} else {
			sr.Addr = fmt.Sprintf("%#x", uint64(r.Addr))
		}
		out = append(out, sr)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"trace":   args[0],
			"results": out,
			"failed":  failed,
		})
	}

	for _, sr := range out {
		if sr.Err != "" {
			printInfo("line %-4d %-5s %-12s FAILED: %s\n", sr.Line, sr.Op, sr.Name, sr.Err)
			continue
		}
		printInfo("line %-4d %-5s %-12s %s\n", sr.Line, sr.Op, sr.Name, sr.Addr)
	}
	if failed > 0 && !simContinue {
		for _, r := range results {
			if errors.Is(r.Err, types.ErrOutOfMemory) {
				return fmt.Errorf("trace hit out-of-memory at line %d", r.Op.Line)
			}
		}
		return fmt.Errorf("%d operation(s) failed", failed)
	}
	return nil
}
