package countdown

import "fmt"

// secondsPerMinute splits a remaining time into the MM:SS clock.
const secondsPerMinute = 60

// State is a copy of the countdown at one instant.
type State struct {
	Total          int  `json:"total"`
	PerMark        int  `json:"per_mark"`
	Remaining      int  `json:"remaining"`
	MarksCompleted int  `json:"marks_completed"`
	Running        bool `json:"running"`
	Paused         bool `json:"paused"`
}

// Phase is the state-machine position derived from the flags.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Phase reports Finished only for a started run that reached zero.
func (s State) Phase() Phase {
	switch {
	case s.Running:
		return Running
	case s.Paused && s.Remaining == 0 && s.Total > 0:
		return Finished
	case s.Paused:
		return Paused
	default:
		return Idle
	}
}

// Clock renders the remaining time as MM:SS.
func (s State) Clock() string { return FormatClock(s.Remaining) }

// Progress is the elapsed fraction of the run in [0,1].
func (s State) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Total-s.Remaining) / float64(s.Total)
}

// FormatClock renders seconds as zero-padded minutes and seconds. Minutes are not
// wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}
