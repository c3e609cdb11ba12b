package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.release != nil {
				_ = m.release()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.blocks)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.PageUp):
			m.cursor -= m.viewport.Height
			if m.cursor < 0 {
				m.cursor = 0
			}

		case key.Matches(msg, m.keys.PageDown):
			m.cursor += m.viewport.Height
			if m.cursor >= len(m.blocks) {
				m.cursor = len(m.blocks) - 1
			}

		case key.Matches(msg, m.keys.Home):
			m.cursor = 0

		case key.Matches(msg, m.keys.End):
			m.cursor = len(m.blocks) - 1

		case key.Matches(msg, m.keys.Refresh):
			if err := m.reload(); err != nil {
				m.err = err
			}
		}
		m.syncViewport()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header, status bar, and pane borders eat into the height.
		contentHeight := msg.Height - 6
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewportFor(msg.Width-4, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = contentHeight
		}
		m.syncViewport()
	}

	return m, nil
}

// syncViewport rebuilds the block listing and keeps the cursor visible.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBlocks())
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
