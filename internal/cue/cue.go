// Package cue plays the audible signals raised by a countdown.
//
// Playback is fire-and-forget: a player never reports failures to its caller,
// it logs them and stays silent for that cue.
package cue

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Cue identifies one of the audible signals.
type Cue string

const (
	// Mark is played when a per-mark interval boundary is reached.
	Mark Cue = "mark"
	// Finish is played once when the whole session ends.
	Finish Cue = "finish"
)

// All lists every cue a player may be asked to play.

// Player is the audio capability injected into the countdown engine.
type Player interface {
	PlayCue(c Cue)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(c Cue)

func (f PlayerFunc) PlayCue(c Cue) { f(c) }

// Nop is a silent Player.
type Nop struct{}

func (Nop) PlayCue(Cue) {}

// Bell rings the terminal bell; one BEL for a mark, two for the finish.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) PlayCue(c Cue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seq := "\a"
	if c == Finish {
		seq = "\a\a"
	}
	if _, err := io.WriteString(b.w, seq); err != nil {
		logrus.Debugf("bell cue %s failed: %v", c, err)
	}
}
