package board

import (
	"strings"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
)

// BlockKind identifies the shape of a render block.
type BlockKind int

const (
	BlockMessage  BlockKind = iota // Whole-board status or error message
	BlockHeader                    // Single-column section heading
	BlockIncident                  // Single-column formatted incident line
	BlockRow                       // Three-column arrival row
)

// Block is one line of the render model.
type Block struct {
	Kind BlockKind

	// BlockMessage and BlockHeader
	Cell Cell

	// BlockIncident
	Incident IncidentText
	Align    Align

	// BlockRow
	Row Row
}

// RenderModel is the declarative description of what the board shows.
type RenderModel struct {
	Title        string // empty when the header is hidden
	Blocks       []Block
	Descriptions []string // incident descriptions, when incidents are shown
}

// ErrorText returns the error message the model shows, or "" when the
// board is not in an error state.
func (rm RenderModel) ErrorText() string {
	if len(rm.Blocks) != 1 || rm.Blocks[0].Kind != BlockMessage {
		return ""
	}
	if text := rm.Blocks[0].Cell.Text; text != MsgWaiting {
		return text
	}
	return ""
}

// Build projects configuration and state into a render model. It never
// mutates st, and equal inputs always give equal models.
//
// Precedence: an error message replaces everything; before any stream has
// delivered only the waiting message is shown; otherwise incidents, the
// configured stations and the configured stops follow in that order.
func Build(cfg *config.Config, st *State) RenderModel {
	var rm RenderModel
	if cfg.Display.ShowHeader {
		rm.Title = cfg.Display.HeaderText
	}

	if st.ErrorMessage != "" {
		rm.Blocks = []Block{messageBlock(st.ErrorMessage)}
		return rm
	}
	if !st.HasData() {
		rm.Blocks = []Block{messageBlock(MsgWaiting)}
		return rm
	}

	if incidents, ok := st.Incidents.Get(); ok && cfg.Display.ShowIncidents {
		rm.Blocks = append(rm.Blocks, Block{Kind: BlockHeader, Cell: Cell{Text: "Incidents", Align: AlignLeft}})
		rm.Blocks = append(rm.Blocks, incidentBlock(incidents.Lines, cfg))
		rm.Descriptions = append([]string(nil), incidents.Descriptions...)
	}

	if stations, ok := st.Trains.Get(); ok && cfg.Display.ShowStationTrainTimes {
		for _, code := range cfg.Trains.Stations {
			station, found := stations[code]
			if !found {
				continue
			}
			header := headerBlock(station.Name, cfg.Display.ColorizeLines, cfg.Theme.StationColor)
			rm.Blocks = append(rm.Blocks, header)
			if len(station.Trains) == 0 {
				rm.Blocks = append(rm.Blocks, Block{Kind: BlockRow, Row: placeholderRow("No Trains")})
				continue
			}
			for _, train := range station.Trains[:capped(len(station.Trains), cfg.Trains.MaxPerStation)] {
				rm.Blocks = append(rm.Blocks, Block{Kind: BlockRow, Row: TrainRow(train, cfg)})
			}
		}
	}

	if stops, ok := st.Buses.Get(); ok && cfg.Display.ShowBusStopTimes {
		for _, id := range cfg.Buses.Stops {
			stop, found := stops[id]
			if !found {
				continue
			}
			header := headerBlock(stop.Name, cfg.Display.ColorizeLines, cfg.Theme.BusStopColor)
			rm.Blocks = append(rm.Blocks, header)
			if len(stop.Buses) == 0 {
				rm.Blocks = append(rm.Blocks, Block{Kind: BlockRow, Row: placeholderRow("No Buses")})
				continue
			}
			for _, bus := range stop.Buses[:capped(len(stop.Buses), cfg.Buses.MaxPerStop)] {
				rm.Blocks = append(rm.Blocks, Block{Kind: BlockRow, Row: BusRow(bus, cfg)})
			}
		}
	}

	return rm
}

// capped returns how many of n rows to show under limit (0 = unlimited).
func capped(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

func messageBlock(text string) Block {
	return Block{Kind: BlockMessage, Cell: Cell{Text: text, Align: AlignLeft}}
}

func headerBlock(name string, colorize bool, color string) Block {
	c := Cell{Text: strings.ToUpper(name), Align: AlignRight}
	if colorize {
		c.Color = color
	}
	return Block{Kind: BlockHeader, Cell: c}
}

func incidentBlock(codes []string, cfg *config.Config) Block {
	align := AlignLeft
	if cfg.Display.IncidentCodesOnly && len(codes) > 0 {
		align = AlignCenter
	}
	return Block{
		Kind:     BlockIncident,
		Incident: FormatIncidents(codes, cfg.Display.ColorizeLines, cfg.Display.IncidentCodesOnly),
		Align:    align,
	}
}
