//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package cue

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/quiztick/internal/apperr"
)

// fakeSink records speaker interactions instead of opening an audio device.
type fakeSink struct {
	mu      sync.Mutex
	initErr error
	inits   []beep.SampleRate
	played  int
}

func (f *fakeSink) Init(rate beep.SampleRate, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits = append(f.inits, rate)
	return f.initErr
}

func (f *fakeSink) Play(beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played++
}

// writeWAV writes a short silent clip at rate to dir/name.
func writeWAV(t *testing.T, dir, name string, rate beep.SampleRate) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(int(rate)/10), format))
	return path
}

func TestNewBeepPlayer_LoadsAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	markPath := writeWAV(t, dir, "mark.wav", 44100)
	finishPath := writeWAV(t, dir, "finish.wav", 22050)

	out := &fakeSink{}
	p, err := NewBeepPlayer(map[Cue]string{Mark: markPath, Finish: finishPath}, withSink(out))
	require.NoError(t, err)
	assert.True(t, p.Loaded(Mark))
	assert.True(t, p.Loaded(Finish))

	p.PlayCue(Mark)
	p.PlayCue(Finish)
	p.PlayCue(Mark)

	out.mu.Lock()
	defer out.mu.Unlock()
	// The speaker opens once, at the rate of the first cue played.
	assert.Equal(t, []beep.SampleRate{44100}, out.inits)
	assert.Equal(t, 3, out.played)
}

func TestNewBeepPlayer_MissingAssetIsUnavailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notWAV := filepath.Join(dir, "finish.wav")
	require.NoError(t, os.WriteFile(notWAV, []byte("not a wav file"), 0o600))

	out := &fakeSink{}
	p, err := NewBeepPlayer(map[Cue]string{
		Mark:   filepath.Join(dir, "missing.wav"),
		Finish: notWAV,
	}, withSink(out))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrResourceUnavailable)
	require.NotNil(t, p)
	assert.False(t, p.Loaded(Mark))
	assert.False(t, p.Loaded(Finish))

	// Playing an unavailable cue is silent and does not panic.
	p.PlayCue(Mark)
	p.PlayCue(Finish)
	assert.Equal(t, 0, out.played)
}

func TestBeepPlayer_SpeakerFailureDisablesCues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := &fakeSink{initErr: errors.New("no audio device")}
	p, err := NewBeepPlayer(map[Cue]string{Mark: writeWAV(t, dir, "mark.wav", 8000)}, withSink(out))
	require.NoError(t, err)

	p.PlayCue(Mark)
	p.PlayCue(Mark)
	assert.Equal(t, 0, out.played)
	assert.Len(t, out.inits, 1)
	assert.ErrorIs(t, p.initErr, apperr.ErrResourceUnavailable)
}

func TestBeepPlayer_Mute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := &fakeSink{}
	p, err := NewBeepPlayer(map[Cue]string{Mark: writeWAV(t, dir, "mark.wav", 8000)}, withSink(out), WithMute(true), WithVolume(-1))
	require.NoError(t, err)

	p.PlayCue(Mark)
	assert.Equal(t, 0, out.played)
	assert.Empty(t, out.inits)
}

func TestNewBeepPlayer_EmptyPathsAreSkipped(t *testing.T) {
	t.Parallel()

	p, err := NewBeepPlayer(map[Cue]string{Mark: "", Finish: ""}, withSink(&fakeSink{}))
	require.NoError(t, err)
	assert.False(t, p.Loaded(Mark))
}

func TestBell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b := NewBell(&buf)
	b.PlayCue(Mark)
	b.PlayCue(Finish)
	assert.Equal(t, "\a\a\a", buf.String())
}

func TestPlayerFunc(t *testing.T) {
	t.Parallel()

	var got []Cue
	var p Player = PlayerFunc(func(c Cue) { got = append(got, c) })
	p.PlayCue(Finish)
	Nop{}.PlayCue(Mark)
	assert.Equal(t, []Cue{Finish}, got)
}
