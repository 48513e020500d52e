package cue

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/apperr"
)

const (
	speakerLatency  = time.Second / 10
	resampleQuality = 4
	volumeBase      = 2
)

// sink is the audio output. The default writes to the system speaker.
type sink interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
}

type speakerSink struct{}

func (speakerSink) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerSink) Play(s beep.Streamer) { speaker.Play(s) }

// BeepPlayer plays WAV cue assets decoded once into memory.
type BeepPlayer struct {
	buffers map[Cue]*beep.Buffer
	volume  float64
	silent  bool
	out     sink

	initOnce sync.Once
	initErr  error
	rate     beep.SampleRate
}

// BeepOption configures a BeepPlayer.
type BeepOption func(*BeepPlayer)

// WithVolume sets the gain on a base-2 log scale; 0 leaves samples unchanged.
func WithVolume(v float64) BeepOption {
	return func(p *BeepPlayer) { p.volume = v }
}

// WithMute keeps the player loaded but silent.
func WithMute(m bool) BeepOption {
	return func(p *BeepPlayer) { p.silent = m }
}

func withSink(s sink) BeepOption {
	return func(p *BeepPlayer) { p.out = s }
}

// NewBeepPlayer decodes the given assets. Cues whose asset is empty, missing or
// not a WAV stay silent; their failures are joined into the returned error,
// each wrapping apperr.ErrResourceUnavailable. The player is always usable.
func NewBeepPlayer(assets map[Cue]string, opts ...BeepOption) (*BeepPlayer, error) {
	p := &BeepPlayer{
		buffers: make(map[Cue]*beep.Buffer, len(assets)),
		out:     speakerSink{},
	}
	for _, opt := range opts {
		opt(p)
	}

	var errs []error
	for c, path := range assets {
		if path == "" {
			continue
		}
		buf, err := loadWAV(path)
		if err != nil {
			errs = append(errs, apperr.New("cue.load", apperr.ErrResourceUnavailable, "%s cue %s: %v", c, path, err))
			continue
		}
		p.buffers[c] = buf
	}
	return p, errors.Join(errs...)
}

func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return buf, nil
}

// Loaded reports whether c has a decoded asset.
func (p *BeepPlayer) Loaded(c Cue) bool {
	_, ok := p.buffers[c]
	return ok
}

// PlayCue starts playback and returns immediately.
func (p *BeepPlayer) PlayCue(c Cue) {
	if p.silent {
		return
	}
	buf, ok := p.buffers[c]
	if !ok {
		logrus.Debugf("cue %s has no asset; skipping", c)
		return
	}
	if err := p.initSpeaker(buf.Format()); err != nil {
		logrus.Debugf("cue %s not played: %v", c, err)
		return
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate := buf.Format().SampleRate; rate != p.rate {
		s = beep.Resample(resampleQuality, rate, p.rate, s)
	}
	p.out.Play(&effects.Volume{
		Streamer: s,
		Base:     volumeBase,
		Volume:   p.volume,
	})
}

// initSpeaker opens the output at the sample rate of the first cue played.
func (p *BeepPlayer) initSpeaker(format beep.Format) error {
	p.initOnce.Do(func() {
		p.rate = format.SampleRate
		if err := p.out.Init(format.SampleRate, format.SampleRate.N(speakerLatency)); err != nil {
			p.initErr = apperr.New("cue.speaker", apperr.ErrResourceUnavailable, "%v", err)
			logrus.Warnf("audio output unavailable, cues disabled: %v", err)
		}
	})
	return p.initErr
}
