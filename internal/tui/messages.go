package tui

// Message types for Bubble Tea update loop.

// tickCountdownMsg fires every second while a countdown runs. Gen identifies
// the tick chain that scheduled it; messages from an older chain are dropped.
type tickCountdownMsg struct{ Gen int }
