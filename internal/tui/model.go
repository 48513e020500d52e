package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/quiztick/internal/countdown"
	"github.com/ensigniasec/quiztick/internal/subject"
)

// focus names the component receiving unbound keys.
type focus int

const (
	focusSubjects focus = iota
	focusMarks
)

// Options seeds the initial screen.
type Options struct {
	// Subject is preselected in the picker.
	Subject subject.Subject
	// Custom is the id or title of a saved custom subject to preselect; it wins over Subject.
	Custom string
	// Marks prefills the mark count input.
	Marks string
	// Library is the list of saved custom subjects offered in the picker.
	Library []subject.CustomSubject
}

// Model is the root Bubble Tea model.
type Model struct {
	engine *countdown.Engine

	subjects list.Model
	marks    textinput.Model
	progress progress.Model
	focus    focus

	// generation identifies the live tick chain.
	generation int
	// active is the title of the subject the current run was started with.
	active string
	err    error

	width    int
	height   int
	quitting bool

	// ui state
	helpVisible bool

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model around engine with initial state from opts.
func NewModel(engine *countdown.Engine, opts Options) Model {
	lst := list.New(subjectItems(opts.Library), subjectDelegate{}, listDefaultWidth, listDefaultHeight)
	lst.SetShowTitle(false)
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()
	lst.Select(initialIndex(lst.Items(), opts))

	in := textinput.New()
	in.Prompt = "Marks: "
	in.Placeholder = "e.g. 4"
	in.CharLimit = marksCharLimit
	in.SetValue(strings.TrimSpace(opts.Marks))

	m := Model{
		engine:   engine,
		subjects: lst,
		marks:    in,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focus:    focusSubjects,
		keys:     newKeyMap(),
	}
	m.syncKeys()
	return m
}

// initialIndex finds the row matching opts, defaulting to the first row.
func initialIndex(items []list.Item, opts Options) int {
	ref := strings.TrimSpace(opts.Custom)
	for i, li := range items {
		it, ok := li.(subjectItem)
		if !ok {
			continue
		}
		if ref != "" {
			if it.custom != nil && (it.custom.ID == ref || strings.EqualFold(it.custom.Title, ref)) {
				return i
			}
			continue
		}
		if opts.Subject != "" && it.Subject == opts.Subject {
			return i
		}
	}
	return 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// selected returns the highlighted subject row.
func (m Model) selected() (subjectItem, bool) {
	it, ok := m.subjects.SelectedItem().(subjectItem)
	return it, ok
}

// canStart reports whether the start control is enabled: the mark input must not be empty.
func (m Model) canStart() bool {
	return strings.TrimSpace(m.marks.Value()) != ""
}

// tickCountdown schedules the next tick for the current generation.
func (m Model) tickCountdown() tea.Cmd {
	gen := m.generation
	return tea.Tick(countdownTickInterval, func(time.Time) tea.Msg {
		return tickCountdownMsg{Gen: gen}
	})
}

// syncKeys enables bindings according to the countdown phase.
func (m *Model) syncKeys() {
	phase := m.engine.Snapshot().Phase()
	switch phase {
	case countdown.Running, countdown.Paused:
		m.keys.Toggle.SetEnabled(true)
	default:
		m.keys.Toggle.SetEnabled(m.canStart())
	}
	m.keys.Restart.SetEnabled(m.canStart())
	m.keys.Save.SetEnabled(phase == countdown.Paused)
}
