package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/quiztick/internal/countdown"
	"github.com/ensigniasec/quiztick/internal/subject"
)

// subjectItem is the list item backing one selectable subject row.
type subjectItem struct {
	Subject subject.Subject
	Name    string
	Seconds int
	custom  *subject.CustomSubject
}

// List item interface methods.
func (it subjectItem) Title() string       { return it.Name }
func (it subjectItem) Description() string { return "" }
func (it subjectItem) FilterValue() string { return it.Name + " " + string(it.Subject) }

// perMark resolves the per-mark duration for this row.
func (it subjectItem) perMark() (int, error) {
	if it.Subject.IsCustom() {
		return subject.DurationForCustom(it.Subject, it.custom)
	}
	return subject.DurationFor(it.Subject, 0)
}

// subjectItems builds the picker rows: the catalog first, then saved custom
// subjects. An unconfigured Custom row is offered when nothing is saved.
func subjectItems(saved []subject.CustomSubject) []list.Item {
	items := make([]list.Item, 0, len(subject.All())+len(saved))
	for _, s := range subject.All() {
		if s.IsCustom() {
			continue
		}
		secs, _ := subject.DurationFor(s, 0)
		items = append(items, subjectItem{Subject: s, Name: s.Title(), Seconds: secs})
	}
	for i := range saved {
		cs := saved[i]
		items = append(items, subjectItem{Subject: subject.Custom, Name: cs.Label(), Seconds: cs.Seconds, custom: &cs})
	}
	if len(saved) == 0 {
		items = append(items, subjectItem{Subject: subject.Custom, Name: subject.Custom.Title()})
	}
	return items
}

// subjectDelegate renders subjectItem rows with the per-mark duration right-justified.
type subjectDelegate struct{}

func (d subjectDelegate) Height() int                             { return 1 }
func (d subjectDelegate) Spacing() int                            { return 0 }
func (d subjectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d subjectDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(subjectItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = lineStyle.Foreground(lipgloss.Color("69")).Bold(true)
	}

	left := fmt.Sprintf("%s%02d. %s", leftPrefix, index+1, it.Name)
	right := perMarkLabel(it.Seconds)

	padding := m.Width() - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	line := left + spaces(padding) + right
	_, _ = fmt.Fprint(w, lineStyle.Render(line))
}

func perMarkLabel(seconds int) string {
	if seconds <= 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("not set")
	}
	return countdown.FormatClock(seconds) + " / mark"
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(n).Render("")
}
