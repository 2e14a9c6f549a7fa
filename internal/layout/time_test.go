package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePosition(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		minutes int
		nextDay bool
	}{
		{"evening slot", "20:30", 870, false},
		{"evening on the hour", "20:00", 840, false},
		{"late night crosses midnight", "01:00", 1140, true},
		{"late night half hour", "01:30", 1170, true},
		{"midnight", "00:00", 1080, true},
		{"last late-night minute", "05:59", 1439, true},
		{"grid start", "06:00", 0, false},
		{"daytime", "12:15", 375, false},
		{"just before midnight", "23:59", 1079, false},
		{"with seconds", "21:00:00", 900, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := CalculatePosition(tc.input)
			assert.Equal(t, tc.minutes, pos.MinutesFromStart)
			assert.Equal(t, tc.nextDay, pos.NextDay)
		})
	}
}

func TestCalculatePositionMalformed(t *testing.T) {
	for _, input := range []string{"", "garbage", "25:00", "12", "aa:bb", "12:75", "-1:30"} {
		pos := CalculatePosition(input)
		assert.Equal(t, Position{}, pos, "input %q should degrade to the zero position", input)
	}
}

func TestFormatTime30(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"01:30", "25:30"},
		{"00:00", "24:00"},
		{"05:59", "29:59"},
		{"20:00", "20:00"},
		{"06:00", "06:00"},
		{"23:45", "23:45"},
		{"02:05:00", "26:05"},
		{"9:05", "09:05"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTime30(tc.input))
	}
}

func TestFormatTime30Malformed(t *testing.T) {
	assert.Equal(t, "", FormatTime30(""))
	assert.Equal(t, "not a time", FormatTime30("not a time"))
}
