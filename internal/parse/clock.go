package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)\s*$`)

// ClockMinutes converts a 12-hour clock display string ("9:30 AM",
// "12 AM") into minutes since midnight. This is the single canonical
// home for this conversion; park-hours strings from every source go
// through here.
//
// The 12 o'clock boundaries follow the usual convention: 12 AM is
// minute 0, 12 PM is minute 720.
func ClockMinutes(raw string) (int, error) {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("unable to parse clock time: %q", raw)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("clock time %q has invalid hour", raw)
	}

	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, fmt.Errorf("clock time %q has invalid minute", raw)
		}
	}

	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(m[3], "PM") {
		hour += 12
	}

	return hour*60 + minute, nil
}

// ClockHour returns just the hour component (0-23) of a 12-hour clock
// string, or an error if the string does not parse.
func ClockHour(raw string) (int, error) {
	mins, err := ClockMinutes(raw)
	if err != nil {
		return 0, err
	}
	return mins / 60, nil
}

// HourLabel formats an hour of day (0-23) as a 12-hour clock label
// ("9 AM", "12 PM", "8 PM"), the format used for forecast points.
func HourLabel(hour int) string {
	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d %s", display, suffix)
}
