package itinerary

import "time"

// Overlaps reports whether two flights are in the air at the same time.
// Intervals are closed-open: a flight landing at 13:40 does not overlap
// one taking off at 13:40. Identical flights always overlap, including
// zero-length ones.
func Overlaps(aStart time.Time, aDuration time.Duration, bStart time.Time, bDuration time.Duration) bool {
	if aStart.Equal(bStart) && aDuration == bDuration {
		return true
	}

	aEnd := aStart.Add(aDuration)
	bEnd := bStart.Add(bDuration)

	// not (aEnd <= bStart || bEnd <= aStart)
	return aEnd.After(bStart) && bEnd.After(aStart)
}
