package countdown

import "github.com/ensigniasec/quiztick/internal/cue"

// EventKind classifies engine events.
type EventKind int

const (
	// MarkBoundaryReached is raised from Tick whenever the mark recomputation signals a mark.
	MarkBoundaryReached EventKind = iota
	// CountdownFinished is raised once, on the tick that reaches zero.
	CountdownFinished
)

func (k EventKind) String() string {
	switch k {
	case MarkBoundaryReached:
		return "mark_boundary_reached"
	case CountdownFinished:
		return "countdown_finished"
	default:
		return "unknown"
	}
}

// Cue maps an event to the sound it triggers.
func (k EventKind) Cue() cue.Cue {
	if k == CountdownFinished {
		return cue.Finish
	}
	return cue.Mark
}

// Event carries the state right after the change that raised it.
type Event struct {
	Kind  EventKind
	State State
}

func dispatch(player cue.Player, listeners []func(Event), events []Event) {
	for _, ev := range events {
		player.PlayCue(ev.Kind.Cue())
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
