package runner

import "time"

// Ticker is the subset of time.Ticker the runner needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. It is injected so tests can drive ticks by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the default Clock backed by time.NewTicker.
//
//nolint:gochecknoglobals // Stateless default implementation.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
