package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Print the block chain after running a trace",
		Long: `The dump command runs an allocation trace and prints the resulting block
chain in traversal order: one line per block with its header address, state,
and total size. Traversal order is the order the allocator considers blocks
in, which is not address order.

Example:
  heapctl dump boot.trace
  heapctl dump boot.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	h, _, err := runTrace(args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		type block struct {
			Addr      string `json:"addr"`
			Size      uint64 `json:"size"`
			Payload   uint64 `json:"payload"`
			Allocated bool   `json:"allocated"`
		}
		var blocks []block
		for _, b := range h.Blocks() {
			blocks = append(blocks, block{
				Addr:      fmt.Sprintf("%#x", uint64(b.Addr)),
				Size:      b.Size,
				Payload:   b.Payload(),
				Allocated: b.Allocated,
			})
		}
		return printJSON(map[string]interface{}{"trace": args[0], "blocks": blocks})
	}

	if quiet {
		return nil
	}
	return h.Dump(os.Stdout)
}
