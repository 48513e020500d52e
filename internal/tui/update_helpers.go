package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/quiztick/internal/countdown"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.generation++
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()

	case key.Matches(msg, m.keys.Restart):
		return m.start()

	case key.Matches(msg, m.keys.Focus):
		return m.switchFocus()

	case key.Matches(msg, m.keys.Save):
		// Sessions are not persisted; the control is only a placeholder.
		return m, nil
	}

	return m.forwardKey(msg)
}

// forwardKey hands an unbound key to the focused component.
func (m Model) forwardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusMarks:
		if !digitsOnly(msg) {
			return m, nil
		}
		m.marks, cmd = m.marks.Update(msg)
	default:
		m.subjects, cmd = m.subjects.Update(msg)
	}
	return m, cmd
}

func (m Model) switchFocus() (Model, tea.Cmd) {
	if m.focus == focusMarks {
		m.focus = focusSubjects
		m.marks.Blur()
		return m, nil
	}
	m.focus = focusMarks
	return m, m.marks.Focus()
}

// toggle pauses a running countdown, resumes a paused one, or starts a fresh run.
func (m Model) toggle() (Model, tea.Cmd) {
	switch m.engine.Snapshot().Phase() {
	case countdown.Running:
		if err := m.engine.Pause(); err != nil {
			m.err = err
			return m, nil
		}
		// Drop the pending tick.
		m.generation++
		return m, nil

	case countdown.Paused:
		if err := m.engine.Resume(); err != nil {
			m.err = err
			return m, nil
		}
		m.generation++
		return m, m.tickCountdown()

	default:
		return m.start()
	}
}

// start begins a fresh run with the selected subject and the typed mark count.
func (m Model) start() (Model, tea.Cmd) {
	if !m.canStart() {
		return m, nil
	}
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	perMark, err := it.perMark()
	if err != nil {
		m.err = err
		return m, nil
	}
	if err := m.engine.StartInput(m.marks.Value(), perMark); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.active = it.Name
	m.generation++
	return m, m.tickCountdown()
}

// resize fits the subject list into the right column.
func (m *Model) resize() {
	height := m.height - listOverheadLines
	if height < listMinHeight {
		height = listMinHeight
	}
	m.subjects.SetSize(rightWidth(m.width), height)
	m.progress.Width = rightWidth(m.width)
}

// digitsOnly reports whether a key carries nothing but ASCII digits. Editing
// keys such as backspace pass through.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return msg.Type != tea.KeySpace
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
