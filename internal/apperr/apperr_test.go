package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpError_UnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	err := New("countdown.start", ErrInvalidInput, "mark count %q", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, `countdown.start: invalid input (mark count "abc")`, err.Error())

	var oe *OpError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "countdown.start", oe.Op)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap("noop", nil))

	inner := New("subject.duration", ErrInvalidConfiguration, "custom duration 0")
	err := Wrap("tui.start", inner)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "tui.start: subject.duration")
}

func TestOpError_Nil(t *testing.T) {
	t.Parallel()

	var e *OpError
	assert.Equal(t, "<nil>", e.Error())
	assert.NoError(t, e.Unwrap())
}
