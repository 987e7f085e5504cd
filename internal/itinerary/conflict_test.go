package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 1, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		aStart    time.Time
		aDuration time.Duration
		bStart    time.Time
		bDuration time.Duration
		want      bool
	}{
		{"back to back", at(12, 0), 100 * time.Minute, at(13, 40), 2 * time.Hour, false},
		{"partial overlap", at(12, 0), 100 * time.Minute, at(13, 0), time.Hour, true},
		{"identical", at(12, 0), 100 * time.Minute, at(12, 0), 100 * time.Minute, true},
		{"contained", at(12, 0), 4 * time.Hour, at(13, 0), time.Hour, true},
		{"disjoint", at(8, 0), time.Hour, at(12, 0), time.Hour, false},
		{"zero length inside", at(12, 30), 0, at(12, 0), time.Hour, true},
		{"zero length at start", at(12, 0), 0, at(12, 0), time.Hour, false},
		{"identical zero length", at(12, 0), 0, at(12, 0), 0, true},
		{"zero length apart", at(12, 0), 0, at(12, 5), 0, false},
		{"next day", at(23, 0), 2 * time.Hour, at(0, 30).AddDate(0, 0, 1), time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aDuration, tt.bStart, tt.bDuration))
			// symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bDuration, tt.aStart, tt.aDuration))
		})
	}
}
