package board

import (
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Scheduler gates render requests behind the startup window. While the
// gate is closed requests are counted and coalesced; once opened every
// request renders immediately.
type Scheduler struct {
	open    bool
	pending int
}

// Request reports whether a render may run now. Closed-gate requests are
// recorded for the release render.
func (s *Scheduler) Request() bool {
	if s.open {
		return true
	}
	s.pending++
	return false
}

// Open opens the gate and returns how many requests were coalesced.
func (s *Scheduler) Open() int {
	n := s.pending
	s.open = true
	s.pending = 0
	return n
}

// IsOpen reports whether renders run immediately.
func (s *Scheduler) IsOpen() bool {
	return s.open
}

// StartupPlan tells the host what to do right after Start: publish the
// registration (nil when the credential is missing) and, when ArmDelay is
// set, call Release once Delay has elapsed. Without ArmDelay the host
// calls Release immediately.
type StartupPlan struct {
	Registration *transit.Registration
	ArmDelay     bool
	Delay        time.Duration
}
