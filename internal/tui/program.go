package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/countdown"
)

// Run starts the Bubble Tea TUI program around engine and blocks until the
// user quits or ctx is cancelled. It returns the final countdown state.
func Run(ctx context.Context, engine *countdown.Engine, opts Options) (countdown.State, error) {
	model := NewModel(engine, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return engine.Snapshot(), err
	}
	return engine.Snapshot(), nil
}
