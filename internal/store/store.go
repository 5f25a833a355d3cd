// Package store captures board events to a JSONL log and reads them back
// for replay. One line holds one transit.Event.
package store

import (
	"sort"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Writer persists events to durable storage.
type Writer interface {
	Append(ev transit.Event) error
	Close() error
}

// Summary describes a captured event log.
type Summary struct {
	Events      int
	Skipped     int // malformed lines
	ByKind      map[transit.Kind]int
	Identifiers []string // sorted, debug events excluded
	First       time.Time
	Last        time.Time
}

// Summarize counts events per kind and collects the identifiers seen.
func Summarize(events []transit.Event) Summary {
	s := Summary{
		Events: len(events),
		ByKind: make(map[transit.Kind]int),
	}
	seen := make(map[string]bool)
	for _, ev := range events {
		s.ByKind[ev.Kind]++
		if ev.Kind != transit.KindDebug && ev.Identifier != "" && !seen[ev.Identifier] {
			seen[ev.Identifier] = true
			s.Identifiers = append(s.Identifiers, ev.Identifier)
		}
		if ev.Timestamp.IsZero() {
			continue
		}
		if s.First.IsZero() || ev.Timestamp.Before(s.First) {
			s.First = ev.Timestamp
		}
		if ev.Timestamp.After(s.Last) {
			s.Last = ev.Timestamp
		}
	}
	sort.Strings(s.Identifiers)
	return s
}

// FirstIdentifier returns the identifier of the first correlated event,
// or "" when there is none.
func FirstIdentifier(events []transit.Event) string {
	for _, ev := range events {
		if ev.Kind != transit.KindDebug && ev.Identifier != "" {
			return ev.Identifier
		}
	}
	return ""
}
