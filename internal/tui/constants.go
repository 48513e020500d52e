package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	countdownTickSeconds = 1
	rightViewportMax     = 64
	clockPanelWidth      = 24
	marksCharLimit       = 4

	// listOverheadLines represents header+input+status+progress+spacer lines around the list.
	// Keep this in sync with renderMainContent layout calculations.
	listOverheadLines = 8
	// listMinHeight enforces a minimum subject list height to avoid collapsing.
	listMinHeight = 4

	listDefaultWidth  = 40
	listDefaultHeight = 10

	countdownTickInterval = time.Duration(countdownTickSeconds) * time.Second
)
