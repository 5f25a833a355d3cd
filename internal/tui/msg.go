package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// eventMsg wraps a collaborator event as a bubbletea message.
type eventMsg transit.Event

// sourceClosedMsg signals the event channel has closed.
type sourceClosedMsg struct{}

// releaseMsg ends the startup window.
type releaseMsg struct{}

// tickMsg is sent every second for the clock.
type tickMsg time.Time
