package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	var cmd tea.Cmd
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.resize()

	case tea.KeyMsg:
		m, cmd = m.handleKey(x)

	case tickCountdownMsg:
		m, cmd = m.handleTick(x)
	}

	m.syncKeys()
	return m, cmd
}

// handleTick advances the engine for the live generation and schedules the next tick.
func (m Model) handleTick(msg tickCountdownMsg) (Model, tea.Cmd) {
	if msg.Gen != m.generation {
		return m, nil
	}
	if !m.engine.Tick() {
		return m, nil
	}
	if m.engine.Snapshot().Running {
		return m, m.tickCountdown()
	}
	return m, nil
}
