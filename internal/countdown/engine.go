// Package countdown implements the study-session countdown.
//
// The engine does not own a timer. An external one-second tick source calls
// Tick while the engine is running; Start, Pause and Resume come from user
// interaction. Every mutation is serialized by the engine.
package countdown

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/apperr"
	"github.com/ensigniasec/quiztick/internal/cue"
)

// Engine state errors. Calls failing with these leave the state unchanged.
var (
	ErrNotRunning = errors.New("countdown is not running")
	ErrNotPaused  = errors.New("countdown is not paused")
	ErrFinished   = errors.New("countdown has finished")
)

// MarkCounting selects how MarksCompleted is derived on each tick.
type MarkCounting int

const (
	// MarkCountingClassic recomputes ceil(elapsed/perMark) with
	// elapsed = perMark - remaining%perMark on every tick and signals a mark
	// whenever the result is positive. The result is 1 from the first tick on.
	MarkCountingClassic MarkCounting = iota
	// MarkCountingElapsed counts whole intervals elapsed since start and
	// signals a mark only when that count grows.
	MarkCountingElapsed
)

// ParseMarkCounting maps a config value to a mode.
func ParseMarkCounting(text string) (MarkCounting, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "classic":
		return MarkCountingClassic, nil
	case "elapsed":
		return MarkCountingElapsed, nil
	default:
		return 0, apperr.New("countdown.mark_counting", apperr.ErrInvalidConfiguration, "unknown mode %q", text)
	}
}

func (m MarkCounting) String() string {
	if m == MarkCountingElapsed {
		return "elapsed"
	}
	return "classic"
}

// Engine owns a single countdown.
type Engine struct {
	mu        sync.Mutex
	state     State
	counting  MarkCounting
	player    cue.Player
	listeners []func(Event)
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlayer injects the audio collaborator. The default is silent.
func WithPlayer(p cue.Player) Option {
	return func(e *Engine) {
		if p != nil {
			e.player = p
		}
	}
}

// WithMarkCounting selects the mark counting mode.
func WithMarkCounting(m MarkCounting) Option {
	return func(e *Engine) { e.counting = m }
}

// WithListener subscribes fn to engine events.
func WithListener(fn func(Event)) Option {
	return func(e *Engine) { e.OnEvent(fn) }
}

// New returns an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{player: cue.Nop{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnEvent subscribes fn. Listeners run synchronously after the cue for each
// event, outside the engine lock, so they may call Snapshot.
func (e *Engine) OnEvent(fn func(Event)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// ParseMarkCount validates user text as a positive mark count.
func ParseMarkCount(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, apperr.New("countdown.marks", apperr.ErrInvalidInput, "mark count is empty")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, apperr.New("countdown.marks", apperr.ErrInvalidInput, "mark count %q is not a number", text)
	}
	if n <= 0 {
		return 0, apperr.New("countdown.marks", apperr.ErrInvalidInput, "mark count must be positive, got %d", n)
	}
	return n, nil
}

// StartInput parses markText and starts the countdown.
func (e *Engine) StartInput(markText string, perMark int) error {
	n, err := ParseMarkCount(markText)
	if err != nil {
		return err
	}
	return e.Start(n, perMark)
}

// Start begins a fresh run of markCount*perMark seconds. Any previous run is
// discarded. On error the state is left as it was.
func (e *Engine) Start(markCount, perMark int) error {
	if markCount <= 0 {
		return apperr.New("countdown.start", apperr.ErrInvalidInput, "mark count must be positive, got %d", markCount)
	}
	if perMark <= 0 {
		return apperr.New("countdown.start", apperr.ErrInvalidConfiguration, "per-mark duration must be positive, got %d", perMark)
	}
	if markCount > math.MaxInt/perMark {
		return apperr.New("countdown.start", apperr.ErrInvalidInput, "mark count %d is too large for %ds per mark", markCount, perMark)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	total := markCount * perMark
	e.state = State{
		Total:     total,
		PerMark:   perMark,
		Remaining: total,
		Running:   true,
	}
	logrus.Debugf("countdown started: marks=%d per_mark=%ds total=%ds", markCount, perMark, total)
	return nil
}

// Tick advances a running countdown by one second and reports whether it did.
// Ticks while idle, paused or finished are ignored.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	if !e.state.Running || e.state.Remaining <= 0 {
		e.mu.Unlock()
		return false
	}

	var events []Event
	e.state.Remaining--
	if e.recomputeMarks() {
		events = append(events, Event{Kind: MarkBoundaryReached, State: e.state})
	}
	if e.state.Remaining == 0 {
		e.state.Running = false
		e.state.Paused = true
		logrus.Debug("countdown finished")
		events = append(events, Event{Kind: CountdownFinished, State: e.state})
	}
	listeners := e.listeners
	player := e.player
	e.mu.Unlock()

	dispatch(player, listeners, events)
	return true
}

// recomputeMarks updates MarksCompleted and reports whether a mark cue is due.
func (e *Engine) recomputeMarks() bool {
	s := &e.state
	switch e.counting {
	case MarkCountingElapsed:
		done := (s.Total - s.Remaining) / s.PerMark
		if done > s.MarksCompleted {
			s.MarksCompleted = done
			return true
		}
		return false
	default:
		elapsed := s.PerMark - s.Remaining%s.PerMark
		if elapsed > 0 {
			s.MarksCompleted = (elapsed + s.PerMark - 1) / s.PerMark
		}
		return s.MarksCompleted > 0
	}
}

// Pause halts a running countdown.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Running {
		return ErrNotRunning
	}
	e.state.Running = false
	e.state.Paused = true
	logrus.Debugf("countdown paused at %s", e.state.Clock())
	return nil
}

// Resume continues a paused countdown from its remaining time.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state.Phase() {
	case Paused:
	case Finished:
		return ErrFinished
	default:
		return ErrNotPaused
	}
	e.state.Running = true
	e.state.Paused = false
	logrus.Debugf("countdown resumed at %s", e.state.Clock())
	return nil
}

// Toggle pauses a running countdown or resumes a paused one.
func (e *Engine) Toggle() error {
	if err := e.Pause(); err == nil {
		return nil
	}
	return e.Resume()
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// MarkCounting reports the configured counting mode.
func (e *Engine) MarkCounting() MarkCounting {
	return e.counting
}
