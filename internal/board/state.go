// Package board merges the three independently updating transit streams
// into one state container and projects it into a render model.
package board

import "github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"

// Fixed messages surfaced through the render model.
const (
	MsgMissingAPIKey   = "Error: Missing API Key"
	MsgTooManyFailures = "Error: Too Many REST Failures"
	MsgWaiting         = "Waiting For Update..."
	MsgNoIncidents     = "No Incidents Reported"
)

// Phase is the lifecycle position of a board instance.
type Phase int

const (
	PhaseUninitialized     Phase = iota // Constructed, registration not sent yet
	PhaseConfigError                    // Credential missing; registration never sent
	PhaseAwaitingFirstData              // Registered, no accepted update yet
	PhaseReady                          // At least one stream has delivered data
)

// String returns a human-readable label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseConfigError:
		return "config-error"
	case PhaseAwaitingFirstData:
		return "awaiting-first-data"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is one stream slot. Each Set replaces the value wholesale and
// bumps the version; version 0 means the stream never delivered.
type Snapshot[T any] struct {
	value   T
	version uint64
}

// Set replaces the slot value.
func (s *Snapshot[T]) Set(v T) {
	s.value = v
	s.version++
}

// Get returns the current value and whether the stream has ever delivered.
func (s Snapshot[T]) Get() (T, bool) {
	return s.value, s.version > 0
}

// Loaded reports whether the stream has ever delivered.
func (s Snapshot[T]) Loaded() bool {
	return s.version > 0
}

// Version returns how many times the slot has been replaced.
func (s Snapshot[T]) Version() uint64 {
	return s.version
}

// State is everything the render model is projected from, apart from
// configuration. It is owned by a single Controller.
type State struct {
	Phase        Phase
	ErrorMessage string // empty = no error

	Incidents Snapshot[transit.Incidents]
	Trains    Snapshot[transit.Stations]
	Buses     Snapshot[transit.Stops]
}

// HasData reports whether any stream has delivered.
func (s State) HasData() bool {
	return s.Incidents.Loaded() || s.Trains.Loaded() || s.Buses.Loaded()
}
