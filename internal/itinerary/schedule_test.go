package itinerary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRand replays fixed values, repeating the last float once exhausted
type stubRand struct {
	start  int
	floats []float64
	next   int
}

func (r *stubRand) IntN(n int) int {
	return r.start % n
}

func (r *stubRand) Float64() float64 {
	i := r.next
	if i >= len(r.floats) {
		i = len(r.floats) - 1
	}
	r.next++
	return r.floats[i]
}

func TestSynthesize(t *testing.T) {
	t.Run("Hourly Route", func(t *testing.T) {
		rng := &stubRand{start: 367, floats: []float64{0.5, 0.2}}
		schedule := Synthesize(800, 800, 100, rng)

		assert.Equal(t, 60, schedule.DurationMinutes)
		// jitter factor is exactly 1 for u = 0.5
		assert.Equal(t, 100, schedule.Price)
		require.NotEmpty(t, schedule.DepartureTimes)
		assert.Equal(t, 360, schedule.DepartureTimes[0])
		assert.Equal(t, 420, schedule.DepartureTimes[1])
		assert.Equal(t, 1380, schedule.DepartureTimes[len(schedule.DepartureTimes)-1])
		assert.Len(t, schedule.DepartureTimes, 18)
	})

	t.Run("Price Jitter Bounds", func(t *testing.T) {
		low := Synthesize(1600, 800, 100, &stubRand{floats: []float64{0}})
		high := Synthesize(1600, 800, 100, &stubRand{floats: []float64{0.999999}})

		assert.Equal(t, 120, low.DurationMinutes)
		assert.Equal(t, 180, low.Price)
		assert.Equal(t, 219, high.Price)
	})

	t.Run("Short Hop Uses Minimum Gap", func(t *testing.T) {
		schedule := Synthesize(10, 800, 100, &stubRand{start: 1430, floats: []float64{0.1}})

		assert.Equal(t, 1, schedule.DurationMinutes)
		assert.Equal(t, 1, schedule.Price)
		assert.Equal(t, []int{1425}, schedule.DepartureTimes)
	})

	t.Run("Antipodal Route Clamped", func(t *testing.T) {
		schedule := Synthesize(20015, 800, 100, &stubRand{floats: []float64{0.5}})

		assert.Equal(t, MaxDurationMinutes, schedule.DurationMinutes)
		assert.Len(t, schedule.DepartureTimes, 1)
	})
}

func TestSynthesizeInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		rng := NewRand(seed, "invariants")
		distance := 0.1 + rng.Float64()*20000
		speed := 500 + rng.IntN(400)
		cost := rng.IntN(1000)

		schedule := Synthesize(distance, speed, cost, rng)

		msg := fmt.Sprintf("seed=%d distance=%.1f speed=%d", seed, distance, speed)
		assert.GreaterOrEqual(t, schedule.DurationMinutes, 0, msg)
		assert.Less(t, schedule.DurationMinutes, MinutesPerDay, msg)
		assert.GreaterOrEqual(t, schedule.Price, 0, msg)
		if schedule.Price == 0 {
			assert.True(t, schedule.DurationMinutes == 0 || cost == 0, msg)
		}
		require.NotEmpty(t, schedule.DepartureTimes, msg)
		for i, departure := range schedule.DepartureTimes {
			assert.GreaterOrEqual(t, departure, 0, msg)
			assert.Less(t, departure, MinutesPerDay, msg)
			assert.Zero(t, departure%15, msg)
			if i > 0 {
				assert.Greater(t, departure, schedule.DepartureTimes[i-1], msg)
			}
		}
	}
}

func TestNewRand(t *testing.T) {
	t.Run("Seeded Is Reproducible", func(t *testing.T) {
		a := Synthesize(1200, 800, 100, NewRand(42, "CMB-LHR-UL"))
		b := Synthesize(1200, 800, 100, NewRand(42, "CMB-LHR-UL"))
		assert.Equal(t, a, b)
	})

	t.Run("Keys Diverge", func(t *testing.T) {
		a := NewRand(42, "CMB-LHR-UL")
		b := NewRand(42, "CMB-DXB-UL")
		assert.NotEqual(t, a.Uint64(), b.Uint64())
	})
}

func TestNeedsSynthesis(t *testing.T) {
	assert.True(t, NeedsSynthesis(0, 500))
	assert.True(t, NeedsSynthesis(0, MinSynthesisDistanceKm))
	assert.False(t, NeedsSynthesis(0, 0.05))
	assert.False(t, NeedsSynthesis(250, 500))
}
