package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// The grid uses a 30-hour broadcast day: hours 6 through 29, with the
// late-night 24:00-29:59 band holding programs that air 00:00-05:59 on the
// next civil day. Japanese TV listings attribute those slots to the previous
// evening's lineup.
const (
	// StartHour is the earliest displayable hour of the broadcast day.
	StartHour = 6
	// EndHour is the exclusive upper bound; the last displayable slot
	// begins at 29:xx.
	EndHour = 30

	// HourHeight is the rendered height of one hour in pixels.
	HourHeight = 60.0
	// MinHeight is the pixels-per-minute scale factor.
	MinHeight = HourHeight / 60

	// ColWidth is the rendered width of a single lane in pixels.
	ColWidth = 120.0

	// MinDurationFloor prevents zero-height cards when a row carries
	// equal or malformed start/end times.
	MinDurationFloor = 5

	dayMinutes   = 24 * 60
	startMinutes = StartHour * 60
)

// Position locates a time-of-day on the linear broadcast-day scale.
type Position struct {
	// MinutesFromStart counts minutes elapsed since 06:00 of the nominal
	// broadcast day.
	MinutesFromStart int `json:"minutes_from_start"`
	// NextDay reports whether the time fell before the broadcast-day start
	// and was shifted onto the following civil day.
	NextDay bool `json:"next_day"`
}

// CalculatePosition converts an HH:MM[:SS] time-of-day string into minutes
// since the broadcast-day start. Times from 00:00 to 05:59 belong to the
// previous evening's lineup and are shifted forward by a full day. Malformed
// input degrades to the zero position; schedule data is occasionally
// incomplete and one bad row must not take down the whole grid.
func CalculatePosition(value string) Position {
	hour, minute, ok := parseClock(value)
	if !ok {
		return Position{}
	}

	total := hour*60 + minute
	nextDay := false
	if hour < StartHour {
		total += dayMinutes
		nextDay = true
	}

	return Position{MinutesFromStart: total - startMinutes, NextDay: nextDay}
}

// FormatTime30 renders a time-of-day using the 24+ hour convention: 00:00
// through 05:59 display as 24:00 through 29:59 so late-night slots stay in
// chronological order within their broadcast day. Other times render
// unchanged. Malformed input is returned as-is.
func FormatTime30(value string) string {
	hour, minute, ok := parseClock(value)
	if !ok {
		return value
	}
	if hour < StartHour {
		hour += 24
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ValidClock reports whether value parses as an HH:MM[:SS] time-of-day.
func ValidClock(value string) bool {
	_, _, ok := parseClock(value)
	return ok
}

// parseClock extracts hour and minute from HH:MM or HH:MM:SS. Seconds are
// ignored.
func parseClock(value string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}
