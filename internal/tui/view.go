package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/quiztick/internal/countdown"
)

const columnGap = 2

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	state := m.engine.Snapshot()
	left := renderClockPanel(m, state)
	leftWidth := lipgloss.Width(left)
	leftHeight := lipgloss.Height(left)

	right := renderMainContent(m, state)
	height := leftHeight
	if h := lipgloss.Height(right) + 2; h > height {
		height = h
	}

	// If we have a window width, size the right column but cap it.
	if m.width > 0 && m.width > leftWidth+columnGap {
		rightStyled := lipgloss.NewStyle().MarginLeft(columnGap).Width(rightWidth(m.width)).Height(height).Render(
			pinFooter(right, renderFooter(m.keys), height),
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, rightStyled)
	}

	// Fallback to vertical stacking if we don't yet know the window or it's too small.
	var b strings.Builder
	b.WriteString(left)
	b.WriteString("\n")
	b.WriteString(right)
	b.WriteString("\n")
	b.WriteString(renderFooter(m.keys))
	return b.String()
}

// rightWidth is the right column width for a terminal of the given width.
func rightWidth(termWidth int) int {
	width := rightViewportMax
	if termWidth > 0 {
		available := termWidth - clockPanelWidth - columnGap
		if available < width {
			width = available
		}
	}
	if width < 1 {
		width = 1
	}
	return width
}

func renderClockPanel(m Model, state countdown.State) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("69")).
		Width(clockPanelWidth-2).
		Align(lipgloss.Center).
		Padding(1, 0)

	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(phaseColor(state.Phase()))
	title := m.active
	if title == "" {
		if it, ok := m.selected(); ok {
			title = it.Name
		}
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(title),
		"",
		clockStyle.Render(spaced(state.Clock())),
		"",
		fmt.Sprintf("marks completed: %d", state.MarksCompleted),
		phaseBadge(state.Phase()),
	}
	return border.Render(strings.Join(lines, "\n"))
}

// spaced widens the clock text so it reads as a large display.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

func renderMainContent(m Model, state countdown.State) string {
	var b strings.Builder
	if m.helpVisible {
		b.WriteString(renderHelp(m.keys))
		b.WriteString("\n\n")
	}
	b.WriteString(renderHeader())
	b.WriteString("\n")

	b.WriteString(m.subjects.View())
	b.WriteString("\n\n")
	b.WriteString(m.marks.View())
	b.WriteString("\n")
	b.WriteString(renderStatus(m, state))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(state.Progress()))
	return b.String()
}

func pinFooter(content string, footer string, totalHeight int) string {
	// Ensure content + footer equals totalHeight by padding content with newlines.
	contentLines := strings.Count(content, "\n")
	footerLines := strings.Count(footer, "\n") + 1
	minSpacing := 1
	needed := totalHeight - (contentLines + footerLines + minSpacing)
	if needed < 0 {
		needed = 0
	}
	var b strings.Builder
	b.WriteString(content)
	b.WriteString(strings.Repeat("\n", minSpacing+needed))
	b.WriteString(footer)
	return b.String()
}

func renderHeader() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Exam pacing timer\n")
}

func renderStatus(m Model, state countdown.State) string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error())
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	switch state.Phase() {
	case countdown.Running:
		return dim.Render(fmt.Sprintf("%s per mark • %s total", countdown.FormatClock(state.PerMark), countdown.FormatClock(state.Total)))
	case countdown.Paused:
		return dim.Render("paused • s: save")
	case countdown.Finished:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("time is up")
	default:
		if !m.canStart() {
			return dim.Render("enter a mark count to start")
		}
		return dim.Render("press enter to start")
	}
}

func phaseColor(p countdown.Phase) lipgloss.Color {
	switch p {
	case countdown.Running:
		return lipgloss.Color("46")
	case countdown.Paused:
		return lipgloss.Color("208")
	case countdown.Finished:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("252")
	}
}

func phaseBadge(p countdown.Phase) string {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(phaseColor(p)).Render(strings.ToUpper(p.String()))
}

func renderFooter(k keyMap) string {
	parts := make([]string, 0, len(k.footerBindings()))
	for _, b := range k.footerBindings() {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, b.Help().Key+": "+b.Help().Desc)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(strings.Join(parts, " • "))
}

func renderHelp(k keyMap) string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	content := []string{"Help", ""}
	for _, b := range []key.Binding{k.Toggle, k.Restart, k.Focus, k.Save, k.Help, k.Quit} {
		content = append(content, b.Help().Key+": "+b.Help().Desc)
	}
	content = append(content, "", "The start control stays disabled until a mark count is entered.")
	return border.Render(strings.Join(content, "\n"))
}
