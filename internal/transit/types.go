package transit

// Sentinel minutes values reported instead of a minute count.
const (
	MinutesArriving = "ARR"
	MinutesBoarding = "BRD"
)

// Incidents is the latest incident report: affected line codes in provider
// order plus an optional parallel list of descriptions.
type Incidents struct {
	Lines        []string `json:"lines"`
	Descriptions []string `json:"descriptions,omitempty"`
}

// TrainArrival is one predicted train at a station.
type TrainArrival struct {
	Line        string `json:"line"`
	Destination string `json:"destination"`
	Min         string `json:"min"` // minute count as text, or a sentinel
}

// Station is a station record with its arrivals in provider order.
type Station struct {
	Name   string         `json:"name"`
	Trains []TrainArrival `json:"trains"`
}

// Stations maps station code to station record.
type Stations map[string]Station

// BusArrival is one predicted bus at a stop.
type BusArrival struct {
	RouteID       string `json:"route_id"`
	DirectionText string `json:"direction_text"`
	Min           string `json:"min"`
}

// Stop is a bus stop record with its arrivals in provider order.
type Stop struct {
	Name  string       `json:"name"`
	Buses []BusArrival `json:"buses"`
}

// Stops maps stop id to stop record.
type Stops map[string]Stop
