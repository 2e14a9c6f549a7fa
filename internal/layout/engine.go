package layout

import (
	"math"
	"sort"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// Mode selects the grouping key for schedule columns.
type Mode string

const (
	// ModeArea groups programs into one column per broadcast area.
	ModeArea Mode = "area"
	// ModeChannel groups programs into one column per channel.
	ModeChannel Mode = "channel"
)

// Valid reports whether the mode is one of the supported grouping keys.
func (m Mode) Valid() bool {
	return m == ModeArea || m == ModeChannel
}

// Program is a ProgramRecord positioned within its column.
type Program struct {
	models.ProgramRecord
	// Top is the pixel offset from the broadcast-day start.
	Top float64 `json:"top"`
	// Height is the rendered card height in pixels.
	Height float64 `json:"height"`
	// LaneIndex is the 0-based horizontal slot within the column.
	LaneIndex int `json:"lane_index"`
	// NextDay reports that the start time was shifted past midnight.
	NextDay bool `json:"is_next_day"`
}

// Column is one vertical strip of the schedule grid.
type Column struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Width    float64   `json:"width"`
	Programs []Program `json:"programs"`

	order int
}

// Calculate groups programs into columns and resolves time overlaps into
// side-by-side lanes. It is a pure function of its inputs: the same set of
// records and mode always produce byte-identical output regardless of input
// order. Malformed rows degrade to a zero-offset floor-duration placement
// instead of failing the whole grid.
func Calculate(records []models.ProgramRecord, mode Mode) []Column {
	if len(records) == 0 {
		return []Column{}
	}

	groups := make(map[int64]*Column)
	for _, rec := range records {
		key, name, order := groupKey(rec, mode)
		col, ok := groups[key]
		if !ok {
			col = &Column{ID: key, Name: name, order: order}
			groups[key] = col
		}
		col.Programs = append(col.Programs, position(rec))
	}

	columns := make([]Column, 0, len(groups))
	for _, col := range groups {
		assignLanes(col)
		columns = append(columns, *col)
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i].order != columns[j].order {
			return columns[i].order < columns[j].order
		}
		return columns[i].ID < columns[j].ID
	})

	return columns
}

// groupKey resolves the column identity for a record. Records whose grouping
// relation is unresolved collapse into a trailing fallback column so no data
// drops out of the view.
func groupKey(rec models.ProgramRecord, mode Mode) (int64, string, int) {
	var id int64
	var name string
	var order int

	if mode == ModeChannel {
		id, name, order = rec.ChannelID, rec.ChannelName, rec.ChannelOrder
		if id == 0 {
			return 0, models.FallbackChannelName, math.MaxInt32
		}
	} else {
		id, name, order = rec.AreaID, rec.AreaName, rec.AreaOrder
		if id == 0 {
			return 0, models.FallbackAreaName, math.MaxInt32
		}
	}

	if name == "" {
		if mode == ModeChannel {
			name = models.FallbackChannelName
		} else {
			name = models.FallbackAreaName
		}
	}

	return id, name, order
}

// position converts a record's wall-clock times into pixel geometry.
func position(rec models.ProgramRecord) Program {
	startOK := ValidClock(rec.StartTime)
	endOK := ValidClock(rec.EndTime)
	start := CalculatePosition(rec.StartTime)
	end := CalculatePosition(rec.EndTime)

	startMin := start.MinutesFromStart
	endMin := end.MinutesFromStart
	// An end strictly before the start means the program runs across the
	// day boundary into the next broadcast day. The rollover only applies
	// to parseable times: an unparseable clock already degraded to the
	// zero position, and rolling it over would stretch one bad row into a
	// full-day card.
	if startOK && endOK && endMin < startMin {
		endMin += dayMinutes
	}

	duration := endMin - startMin
	if !startOK || !endOK || duration < MinDurationFloor {
		duration = MinDurationFloor
	}

	name := rec.Name
	if name == "" {
		name = models.FallbackWorkName
	}
	rec.Name = name

	return Program{
		ProgramRecord: rec,
		Top:           float64(startMin) * MinHeight,
		Height:        float64(duration) * MinHeight,
		NextDay:       start.NextDay,
	}
}

// assignLanes resolves overlaps within a column using greedy interval
// coloring: programs sorted by start are placed into the lowest-indexed lane
// whose previous occupant has already ended. The lane count equals the
// maximum number of simultaneously overlapping programs.
func assignLanes(col *Column) {
	sort.Slice(col.Programs, func(i, j int) bool {
		if col.Programs[i].Top != col.Programs[j].Top {
			return col.Programs[i].Top < col.Programs[j].Top
		}
		return col.Programs[i].ID < col.Programs[j].ID
	})

	var laneEnds []float64
	for i := range col.Programs {
		p := &col.Programs[i]
		lane := -1
		for idx, end := range laneEnds {
			if end <= p.Top {
				lane = idx
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = p.Top + p.Height
		p.LaneIndex = lane
	}

	lanes := len(laneEnds)
	if lanes < 1 {
		lanes = 1
	}
	col.Width = float64(lanes) * ColWidth
}
