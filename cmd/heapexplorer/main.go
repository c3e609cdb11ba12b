package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "--help" || args[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if args[0] == "--version" || args[0] == "-v" {
		fmt.Printf("heapexplorer %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}

	tracePath := args[0]
	if _, err := os.Stat(tracePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: trace file not found: %s\n", tracePath)
		os.Exit(1)
	}

	m, err := NewModel(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: heapexplorer <trace>")
	fmt.Fprintln(os.Stderr, "Run 'heapexplorer --help' for details.")
}

func printHelp() {
	fmt.Println(`heapexplorer - interactive boot heap block chain browser

Usage:
  heapexplorer <trace>

Runs an allocation trace against the boot heap allocator and opens an
interactive view of the resulting block chain. Blocks are listed in
traversal order (the order the allocator considers them in); the footer
tracks free/allocated totals and fragmentation.

Keys:
  up/k, down/j     move selection
  pgup, pgdown     page
  g, G             first / last block
  r                re-run the trace
  ?                toggle help
  q, ctrl+c        quit`)
}
