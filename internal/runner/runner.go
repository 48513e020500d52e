// Package runner is the headless one-second tick source for a countdown engine.
package runner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/countdown"
)

// DefaultInterval is the real-time length of one countdown tick.
const DefaultInterval = time.Second

// Command is a user control forwarded to the engine between ticks.
type Command int

const (
	Pause Command = iota
	Resume
	Toggle
	Quit
)

type options struct {
	interval time.Duration
	clock    Clock
	onTick   func(countdown.State)
	control  <-chan Command
}

// Option configures Run.
type Option func(*options)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithClock injects the ticker source.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithOnTick reports the state after every applied tick and every control command.
func WithOnTick(fn func(countdown.State)) Option {
	return func(o *options) { o.onTick = fn }
}

// WithControl accepts pause/resume/quit commands while running.
func WithControl(ch <-chan Command) Option {
	return func(o *options) { o.control = ch }
}

// Run ticks e until it finishes, ctx is done, or a Quit command arrives.
// A ticker exists only while the engine is running, so a paused engine
// receives no ticks at all. Without a control channel Run returns as soon as
// the engine stops running, since nothing could resume it.
func Run(ctx context.Context, e *countdown.Engine, opts ...Option) (countdown.State, error) {
	o := options{interval: DefaultInterval, clock: SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	if e.Snapshot().Phase() != countdown.Running {
		return e.Snapshot(), countdown.ErrNotRunning
	}

	var ticker Ticker
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
	}
	defer stop()

	control := o.control
	for {
		state := e.Snapshot()
		var tickC <-chan time.Time
		switch state.Phase() {
		case countdown.Running:
			if ticker == nil {
				ticker = o.clock.NewTicker(o.interval)
			}
			tickC = ticker.C()
		case countdown.Finished:
			return state, nil
		default:
			stop()
			if control == nil {
				return state, nil
			}
		}

		select {
		case <-ctx.Done():
			return e.Snapshot(), ctx.Err()

		case cmd, ok := <-control:
			if !ok {
				control = nil
				if state.Phase() != countdown.Running {
					return e.Snapshot(), nil
				}
				continue
			}
			if cmd == Quit {
				return e.Snapshot(), nil
			}
			apply(e, cmd)
			report(o.onTick, e.Snapshot())

		case <-tickC:
			if e.Tick() {
				report(o.onTick, e.Snapshot())
			}
		}
	}
}

func apply(e *countdown.Engine, cmd Command) {
	var err error
	switch cmd {
	case Pause:
		err = e.Pause()
	case Resume:
		err = e.Resume()
	case Toggle:
		err = e.Toggle()
	case Quit:
	}
	if err != nil {
		logrus.Debugf("control command %d ignored: %v", cmd, err)
	}
}

func report(fn func(countdown.State), s countdown.State) {
	if fn != nil {
		fn(s)
	}
}
