package transit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the type of an inbound event.
type Kind int

const (
	KindUnknown            Kind = iota
	KindIncidentUpdate          // Incident lines replaced
	KindStationTrainUpdate      // Station train arrivals replaced
	KindBusStopUpdate           // Bus stop arrivals replaced
	KindFatalPollError          // Collaborator gave up after repeated failures
	KindDebug                   // Free-form diagnostic text
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindIncidentUpdate:     "incident_update",
	KindStationTrainUpdate: "station_train_update",
	KindBusStopUpdate:      "bus_stop_update",
	KindFatalPollError:     "fatal_poll_error",
	KindDebug:              "debug",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("transit: unknown event kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name into a kind.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("transit: unknown event kind %q", text)
}

// Event is one message from the polling collaborator. Only the payload
// fields matching Kind are populated. Timestamp is zero for an unstamped
// event and is left off the wire in that case.
type Event struct {
	Kind       Kind      `json:"kind"`
	Identifier string    `json:"identifier"`
	Timestamp  time.Time `json:"timestamp"`

	// IncidentUpdate
	Incidents *Incidents `json:"incidents,omitempty"`

	// StationTrainUpdate
	Stations Stations `json:"stations,omitempty"`

	// BusStopUpdate
	Stops Stops `json:"stops,omitempty"`

	// Debug
	Message string `json:"message,omitempty"`
}

// MarshalJSON encodes the event, dropping a zero Timestamp.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire Event
	var ts *time.Time
	if !e.Timestamp.IsZero() {
		ts = &e.Timestamp
	}
	return json.Marshal(struct {
		wire
		Timestamp *time.Time `json:"timestamp,omitempty"`
	}{wire(e), ts})
}

// Registration is sent once at startup so the collaborator knows what to
// poll for this instance and which identifier to tag its events with.
type Registration struct {
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
	Config     any    `json:"config"`
}
