package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

func viewportFor(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	return vp
}

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := headerStyle.Render(fmt.Sprintf("heapexplorer — %s", m.tracePath))
	content := paneStyle.Render(m.viewport.View())
	status := m.renderStatus()

	return strings.Join([]string{header, content, status}, "\n")
}

// renderBlocks renders one line per block in traversal order.
func (m Model) renderBlocks() string {
	if len(m.blocks) == 0 {
		return "(empty chain — no usable regions seeded)"
	}
	var b strings.Builder
	for i, blk := range m.blocks {
		state := "free"
		style := freeStyle
		if blk.Allocated {
			state = "alloc"
			style = allocStyle
		}
		line := fmt.Sprintf("%#016x  %-5s  %10d B  payload %10d B",
			uint64(blk.Addr), state, blk.Size, blk.Payload())
		if i == m.cursor {
			line = selectedStyle.Render(line)
		} else {
			line = style.Render(line)
		}
		b.WriteString(line)
		if i != len(m.blocks)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	s := m.stats
	frag := uint64(0)
	if s.FreeBytes > s.LargestFree {
		frag = s.FreeBytes - s.LargestFree
	}
	left := fmt.Sprintf("%d/%d blocks  free %d B  alloc %d B  fragmented %d B",
		m.cursor+1, len(m.blocks), s.FreeBytes, s.AllocatedBytes, frag)
	if m.failed > 0 {
		left += fmt.Sprintf("  %d failed alloc(s)", m.failed)
	}
	return statusStyle.Render(left + "  •  ? help  q quit")
}

func (m Model) renderHelp() string {
	help := `Keys

  up/k, down/j     move selection
  pgup, pgdown     page
  g, G             first / last block
  r                re-run trace
  ?                close help
  q, ctrl+c        quit

The listing shows the block chain in traversal order: the order the
allocator considers blocks during a first-fit walk. Free neighbors are
never merged, so freed blocks stay exactly where splitting left them.`
	return paneStyle.Render(help)
}
