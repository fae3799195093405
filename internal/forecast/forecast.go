package forecast

import (
	"math"
	"time"

	"park-waits-backend/internal/model"
	"park-waits-backend/internal/parse"
)

// Point is one hourly slot of a forecast curve. IsHistorical marks
// slots backed by recorded samples rather than the heuristic.
type Point struct {
	HourLabel    string `json:"hourLabel"`
	Hour         int    `json:"hour"`
	WaitMinutes  int    `json:"waitMinutes"`
	IsHistorical bool   `json:"isHistorical"`
}

// Default operating window when no park hours are known.
const (
	defaultOpenHour  = 9
	defaultCloseHour = 22
)

// HourlyCurve produces the wait-time forecast for a ride on a target
// date: one point per operating hour. Heuristic values are a pure
// function of the ride's stats and the date; whenever recorded samples
// exist for an hour, their rounded mean replaces the heuristic outright
// — real data is never blended with the model.
func HourlyCurve(ride model.Ride, samples []model.WaitTimeHistory, target time.Time, hours *model.ParkHours) []Point {
	openHour, closeHour := operatingWindow(hours)
	baseWait := clamp(float64(ride.AvgWaitMinutes), 15, 90)
	peakWait := math.Max(baseWait*1.8, float64(ride.PeakWaitMinutes))
	seasonal := seasonalMultiplier(target)

	byHour := samplesByHour(samples)

	span := float64(closeHour - openHour)
	var curve []Point
	for hour := openHour; hour < closeHour; hour++ {
		point := Point{
			Hour:      hour,
			HourLabel: parse.HourLabel(hour),
		}

		if hourSamples, ok := byHour[hour]; ok {
			point.WaitMinutes = roundedMean(hourSamples)
			point.IsHistorical = true
			curve = append(curve, point)
			continue
		}

		progress := float64(hour-openHour) / span
		predicted := baseWait * crowdShape(progress) * seasonal
		point.WaitMinutes = int(math.Round(clamp(predicted, 5, peakWait)))
		curve = append(curve, point)
	}
	return curve
}

// BestSlot returns the point with the minimum wait, the "best time to
// ride" guidance shown to users. Returns nil for an empty curve.
func BestSlot(curve []Point) *Point {
	if len(curve) == 0 {
		return nil
	}
	best := curve[0]
	for _, p := range curve[1:] {
		if p.WaitMinutes < best.WaitMinutes {
			best = p
		}
	}
	return &best
}

// operatingWindow resolves the park's open/close hours for the day,
// falling back to 9:00-22:00 when hours are missing or unparseable.
func operatingWindow(hours *model.ParkHours) (int, int) {
	openHour, closeHour := defaultOpenHour, defaultCloseHour
	if hours == nil || hours.IsClosed {
		return openHour, closeHour
	}
	if h, err := parse.ClockHour(hours.OpenTime); err == nil {
		openHour = h
	}
	if h, err := parse.ClockHour(hours.CloseTime); err == nil && h > openHour {
		closeHour = h
	}
	return openHour, closeHour
}

// seasonalMultiplier scales the baseline by crowd season: summer, the
// winter holidays, and spring break run hot; weekends slightly above
// baseline; everything else below it.
func seasonalMultiplier(target time.Time) float64 {
	switch target.Month() {
	case time.June, time.July, time.August:
		return 1.35
	case time.December, time.January:
		return 1.25
	case time.March, time.April:
		return 1.15
	}
	if target.Weekday() == time.Saturday || target.Weekday() == time.Sunday {
		return 1.10
	}
	return 0.85
}

// crowdShape maps normalized day progress (0 = open, 1 = close) onto a
// wait multiplier: rope-drop ramp, morning build, midday peak plateau,
// afternoon decline, dinner lull, evening surge.
func crowdShape(progress float64) float64 {
	switch {
	case progress < 0.15:
		return 0.25 + (progress/0.15)*0.35
	case progress < 0.45:
		return 0.60 + ((progress-0.15)/0.30)*0.35
	case progress < 0.60:
		return 0.95 + ((progress-0.45)/0.15)*0.05
	case progress < 0.75:
		return 1.00 - ((progress-0.60)/0.15)*0.25
	case progress < 0.90:
		return 0.75 - ((progress-0.75)/0.15)*0.20
	default:
		return 0.55 + ((progress-0.90)/0.10)*0.25
	}
}

func samplesByHour(samples []model.WaitTimeHistory) map[int][]int {
	byHour := make(map[int][]int)
	for _, s := range samples {
		byHour[s.HourOfDay] = append(byHour[s.HourOfDay], s.WaitMinutes)
	}
	return byHour
}

func roundedMean(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
