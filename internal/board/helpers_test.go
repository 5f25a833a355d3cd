package board

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

const testID = "board-1"

// testConfig returns a valid config with a credential and no startup delay.
func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.WMATA.APIKey = "key"
	cfg.Display.ShowBusStopTimes = true
	cfg.Startup.DelayPolicy = config.DelayNever
	return &cfg
}

// newTestController returns a started controller that renders immediately.
func newTestController(t *testing.T, cfg *config.Config, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	c := New(cfg, testID, opts...)
	c.Start()
	return c
}

func incidentEvent(id string, lines ...string) transit.Event {
	return transit.Event{
		Kind:       transit.KindIncidentUpdate,
		Identifier: id,
		Incidents:  &transit.Incidents{Lines: lines},
	}
}

func trainEvent(id string, stations transit.Stations) transit.Event {
	return transit.Event{Kind: transit.KindStationTrainUpdate, Identifier: id, Stations: stations}
}

func busEvent(id string, stops transit.Stops) transit.Event {
	return transit.Event{Kind: transit.KindBusStopUpdate, Identifier: id, Stops: stops}
}

func failureEvent(id string) transit.Event {
	return transit.Event{Kind: transit.KindFatalPollError, Identifier: id}
}

// trains builds n arrivals with minutes "1".."n".
func trains(n int) []transit.TrainArrival {
	out := make([]transit.TrainArrival, n)
	for i := range out {
		out[i] = transit.TrainArrival{Line: "RD", Destination: fmt.Sprintf("Dest %d", i+1), Min: fmt.Sprintf("%d", i+1)}
	}
	return out
}

func sampleStations() transit.Stations {
	return transit.Stations{
		"A01": {Name: "Metro Center", Trains: []transit.TrainArrival{
			{Line: "RD", Destination: "Shady Grove", Min: "ARR"},
			{Line: "RD", Destination: "Glenmont", Min: "4"},
		}},
		"C01": {Name: "Metro Center", Trains: []transit.TrainArrival{
			{Line: "BL", Destination: "Franconia", Min: "BRD"},
		}},
	}
}

func sampleStops() transit.Stops {
	return transit.Stops{
		"1001451": {Name: "14th St + Colorado Ave", Buses: []transit.BusArrival{
			{RouteID: "S2", DirectionText: "South to Federal Triangle", Min: "6"},
		}},
	}
}

// rowTexts returns the texts of every row block.
func rowTexts(rm RenderModel) [][3]string {
	var out [][3]string
	for _, b := range rm.Blocks {
		if b.Kind == BlockRow {
			out = append(out, [3]string{b.Row[0].Text, b.Row[1].Text, b.Row[2].Text})
		}
	}
	return out
}

// headerTexts returns the texts of every header block.
func headerTexts(rm RenderModel) []string {
	var out []string
	for _, b := range rm.Blocks {
		if b.Kind == BlockHeader {
			out = append(out, b.Cell.Text)
		}
	}
	return out
}
