package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/joshuapare/bootheap/internal/physmem"
	"github.com/joshuapare/bootheap/internal/trace"
	"github.com/joshuapare/bootheap/pkg/heap"
)

// Model is the main application model
type Model struct {
	tracePath string
	keys      KeyMap
	viewport  viewport.Model

	blocks  []heap.BlockInfo
	stats   heap.Stats
	failed  int // allocations the trace could not satisfy
	cursor  int
	release func() error

	width    int
	height   int
	ready    bool
	showHelp bool
	err      error
}

// NewModel runs the trace and builds the initial model.
func NewModel(tracePath string) (Model, error) {
	m := Model{
		tracePath: tracePath,
		keys:      DefaultKeyMap(),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reload re-runs the trace against a fresh heap and snapshots the chain.
func (m *Model) reload() error {
	if m.release != nil {
		_ = m.release()
		m.release = nil
	}

	f, err := os.Open(m.tracePath)
	if err != nil {
		return err
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return err
	}

	sim := physmem.NewSim()
	h := heap.New()
	results, err := trace.Run(h, sim, ops)
	if err != nil {
		_ = sim.Release()
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	m.release = sim.Release
	m.blocks = h.Blocks()
	m.stats = h.Stats()
	m.failed = failed
	if m.cursor >= len(m.blocks) {
		m.cursor = 0
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}
