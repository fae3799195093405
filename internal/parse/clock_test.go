package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockMinutes(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "morning with minutes", input: "9:30 AM", want: 570},
		{name: "morning without minutes", input: "9 AM", want: 540},
		{name: "midnight", input: "12:00 AM", want: 0},
		{name: "noon", input: "12:00 PM", want: 720},
		{name: "just past noon", input: "12:15 PM", want: 735},
		{name: "just past midnight", input: "12:05 AM", want: 5},
		{name: "evening", input: "10:00 PM", want: 1320},
		{name: "lowercase suffix", input: "9:30 pm", want: 1290},
		{name: "no space before suffix", input: "9:30AM", want: 570},
		{name: "surrounding whitespace", input: "  8:00 PM ", want: 1200},
		{name: "end of day", input: "11:59 PM", want: 1439},
		{name: "empty", input: "", wantErr: true},
		{name: "24-hour style", input: "21:00", wantErr: true},
		{name: "hour out of range", input: "13:00 PM", wantErr: true},
		{name: "minute out of range", input: "9:61 AM", wantErr: true},
		{name: "garbage", input: "closed", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ClockMinutes(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClockHour(t *testing.T) {
	h, err := ClockHour("9:45 PM")
	assert.NoError(t, err)
	assert.Equal(t, 21, h)

	_, err = ClockHour("not a time")
	assert.Error(t, err)
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "12 AM", HourLabel(0))
	assert.Equal(t, "9 AM", HourLabel(9))
	assert.Equal(t, "12 PM", HourLabel(12))
	assert.Equal(t, "1 PM", HourLabel(13))
	assert.Equal(t, "11 PM", HourLabel(23))
}
