package itinerary

import (
	"fmt"
	"time"
)

// FormatClock renders minutes since midnight as HH:MM
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses HH:MM into minutes since midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NearestDeparture returns the scheduled time closest to t on the 24-hour
// clock. Ties go to the earliest entry in times. ok is false when times is empty.
func NearestDeparture(t int, times []int) (nearest int, ok bool) {
	best := MinutesPerDay + 1
	for _, candidate := range times {
		d := t - candidate
		if d < 0 {
			d = -d
		}
		if wrapped := MinutesPerDay - d; wrapped < d {
			d = wrapped
		}
		if d < best {
			best = d
			nearest = candidate
			ok = true
		}
	}
	return nearest, ok
}
