package layout

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitime-dev/anitime-api/internal/models"
)

type recordSpec struct {
	id        int64
	channel   int64
	area      int64
	start     string
	end       string
	areaOrder int
	chanOrder int
}

func makeRecord(spec recordSpec) models.ProgramRecord {
	rec := models.ProgramRecord{
		ID:           spec.id,
		WorkID:       spec.id,
		Name:         "作品",
		StartTime:    spec.start,
		EndTime:      spec.end,
		DayOfTheWeek: 1,
		ChannelID:    spec.channel,
		ChannelOrder: spec.chanOrder,
		AreaID:       spec.area,
		AreaOrder:    spec.areaOrder,
	}
	if spec.channel != 0 {
		rec.ChannelName = "チャンネル"
	}
	if spec.area != 0 {
		rec.AreaName = "エリア"
	}
	return rec
}

func TestCalculateEmptyInput(t *testing.T) {
	assert.Empty(t, Calculate(nil, ModeArea))
	assert.Empty(t, Calculate([]models.ProgramRecord{}, ModeChannel))
}

func TestCalculateGrouping(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "22:30"}),
		makeRecord(recordSpec{id: 2, channel: 10, area: 100, start: "23:00", end: "23:30"}),
		makeRecord(recordSpec{id: 3, channel: 20, area: 200, start: "22:00", end: "22:30", areaOrder: 1, chanOrder: 1}),
	}

	areaCols := Calculate(records, ModeArea)
	require.Len(t, areaCols, 2)
	assert.Equal(t, int64(100), areaCols[0].ID)
	assert.Len(t, areaCols[0].Programs, 2)
	assert.Equal(t, int64(200), areaCols[1].ID)

	chanCols := Calculate(records, ModeChannel)
	require.Len(t, chanCols, 2)
	assert.Equal(t, int64(10), chanCols[0].ID)
	assert.Equal(t, int64(20), chanCols[1].ID)
}

func TestCalculateSharedAreaSplitsByChannel(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "22:30"}),
		makeRecord(recordSpec{id: 2, channel: 20, area: 100, start: "22:00", end: "22:30", chanOrder: 1}),
	}

	assert.Len(t, Calculate(records, ModeArea), 1)
	assert.Len(t, Calculate(records, ModeChannel), 2)
}

func TestCalculateLaneAssignment(t *testing.T) {
	// Intervals [0,60), [30,90), [60,120) minutes from day start: the first
	// and third do not overlap and must share lane 0.
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "06:00", end: "07:00"}),
		makeRecord(recordSpec{id: 2, channel: 10, area: 100, start: "06:30", end: "07:30"}),
		makeRecord(recordSpec{id: 3, channel: 10, area: 100, start: "07:00", end: "08:00"}),
	}

	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Programs, 3)

	lanes := map[int64]int{}
	for _, p := range cols[0].Programs {
		lanes[p.ID] = p.LaneIndex
	}
	assert.Equal(t, 0, lanes[1])
	assert.Equal(t, 1, lanes[2])
	assert.Equal(t, 0, lanes[3])
	assert.Equal(t, 2*ColWidth, cols[0].Width)
}

func TestCalculateSingleLaneWidth(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "22:30"}),
	}
	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	assert.Equal(t, ColWidth, cols[0].Width)
}

func TestCalculateDayBoundaryDuration(t *testing.T) {
	// 04:00 start (28:00 on the broadcast scale) ending 00:30 the next
	// broadcast day: height must be positive, never zero or negative.
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "04:00", end: "00:30"}),
	}
	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	prog := cols[0].Programs[0]
	assert.True(t, prog.NextDay)
	// 04:00 sits at minute 1320 of the broadcast scale; 00:30 rolls over
	// to 1110+1440=2550, so the card spans 1230 minutes.
	assert.Equal(t, 1230*MinHeight, prog.Height)
}

func TestCalculateZeroDurationGetsFloor(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "21:00", end: "21:00"}),
	}
	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	// Equal start and end is bad data, not a 24-hour broadcast: the card
	// stays at its start offset with the minimum duration. Only a strictly
	// earlier end triggers the day rollover.
	prog := cols[0].Programs[0]
	assert.Equal(t, float64((21-StartHour)*60)*MinHeight, prog.Top)
	assert.Equal(t, float64(MinDurationFloor)*MinHeight, prog.Height)
}

func TestCalculateMalformedRecordDoesNotBlankGrid(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "", end: "bogus"}),
		makeRecord(recordSpec{id: 2, channel: 10, area: 100, start: "22:00", end: "22:30"}),
	}

	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Programs, 2)

	bad := cols[0].Programs[0]
	assert.Equal(t, int64(1), bad.ID)
	assert.Equal(t, 0.0, bad.Top)
	assert.Equal(t, float64(MinDurationFloor)*MinHeight, bad.Height)
	assert.False(t, bad.NextDay)
}

func TestCalculateMalformedEndKeepsStartOffset(t *testing.T) {
	// A parseable start with a broken end keeps the known offset; only
	// the duration degrades to the floor.
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "25:99"}),
	}

	cols := Calculate(records, ModeChannel)
	require.Len(t, cols, 1)
	prog := cols[0].Programs[0]
	assert.Equal(t, float64((22-StartHour)*60)*MinHeight, prog.Top)
	assert.Equal(t, float64(MinDurationFloor)*MinHeight, prog.Height)
}

func TestCalculateUnknownKeyFallbackColumn(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "22:30"}),
		makeRecord(recordSpec{id: 2, channel: 10, area: 0, start: "22:00", end: "22:30"}),
	}

	cols := Calculate(records, ModeArea)
	require.Len(t, cols, 2)
	assert.Equal(t, int64(100), cols[0].ID)
	assert.Equal(t, int64(0), cols[1].ID)
	assert.Equal(t, models.FallbackAreaName, cols[1].Name)
}

func TestCalculateFallbackWorkName(t *testing.T) {
	rec := makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "22:00", end: "22:30"})
	rec.Name = ""

	cols := Calculate([]models.ProgramRecord{rec}, ModeChannel)
	require.Len(t, cols, 1)
	assert.Equal(t, models.FallbackWorkName, cols[0].Programs[0].Name)
}

func TestCalculateIdempotentAndOrderIndependent(t *testing.T) {
	records := []models.ProgramRecord{
		makeRecord(recordSpec{id: 1, channel: 10, area: 100, start: "23:00", end: "23:30"}),
		makeRecord(recordSpec{id: 2, channel: 10, area: 100, start: "23:00", end: "23:30"}),
		makeRecord(recordSpec{id: 3, channel: 10, area: 100, start: "23:15", end: "23:45"}),
		makeRecord(recordSpec{id: 4, channel: 20, area: 200, start: "01:00", end: "01:30", areaOrder: 1, chanOrder: 1}),
		makeRecord(recordSpec{id: 5, channel: 20, area: 200, start: "25:xx", end: "", areaOrder: 1, chanOrder: 1}),
	}

	want := Calculate(records, ModeArea)
	assert.Equal(t, want, Calculate(records, ModeArea), "repeat call must be identical")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.ProgramRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Calculate(shuffled, ModeArea), "shuffle %d changed the layout", i)
	}
}

func TestCalculateNoOverlapAndMinimality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var records []models.ProgramRecord
	for i := 1; i <= 40; i++ {
		startHour := 20 + rng.Intn(9)
		startMin := rng.Intn(60)
		duration := 15 + rng.Intn(90)
		start := clock(startHour, startMin)
		end := clock(startHour+(startMin+duration)/60, (startMin+duration)%60)
		records = append(records, makeRecord(recordSpec{
			id:      int64(i),
			channel: int64(10 + rng.Intn(3)),
			area:    100,
			start:   start,
			end:     end,
		}))
	}

	for _, col := range Calculate(records, ModeChannel) {
		byLane := map[int][]Program{}
		maxLane := 0
		for _, p := range col.Programs {
			byLane[p.LaneIndex] = append(byLane[p.LaneIndex], p)
			if p.LaneIndex > maxLane {
				maxLane = p.LaneIndex
			}
		}

		// No two programs in the same lane may overlap.
		for _, lanePrograms := range byLane {
			for i := 0; i < len(lanePrograms); i++ {
				for j := i + 1; j < len(lanePrograms); j++ {
					a, b := lanePrograms[i], lanePrograms[j]
					overlap := a.Top < b.Top+b.Height && b.Top < a.Top+a.Height
					assert.False(t, overlap, "programs %d and %d share lane but overlap", a.ID, b.ID)
				}
			}
		}

		// The lane count may not exceed the maximum number of programs
		// covering any single start instant.
		maxConcurrent := 0
		for _, p := range col.Programs {
			concurrent := 0
			for _, q := range col.Programs {
				if q.Top <= p.Top && p.Top < q.Top+q.Height {
					concurrent++
				}
			}
			if concurrent > maxConcurrent {
				maxConcurrent = concurrent
			}
		}
		assert.LessOrEqual(t, maxLane+1, maxConcurrent)
	}
}

// clock renders an HH:MM fixture string, wrapping 24+ hours back onto the
// civil clock the way the database stores them.
func clock(hour, minute int) string {
	if hour >= 24 {
		hour -= 24
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
