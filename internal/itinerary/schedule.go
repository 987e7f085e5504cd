package itinerary

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

const (
	// MinutesPerDay bounds every departure-time-of-day
	MinutesPerDay = 1440

	// MaxDurationMinutes is the longest duration a route may carry
	MaxDurationMinutes = MinutesPerDay - 1

	// MinSynthesisDistanceKm is the distance below which no schedule is synthesized
	MinSynthesisDistanceKm = 0.1

	slotMinutes   = 15
	minGapMinutes = 30
	priceJitter   = 0.10
)

// Rand is the random source consumed by Synthesize.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Schedule is a synthesized duration, price and set of daily departures for a route
type Schedule struct {
	DurationMinutes int   `json:"duration_minutes"`
	Price           int   `json:"price"`
	DepartureTimes  []int `json:"departure_times"`
}

// NewRand returns a generator for the route identified by key.
// A zero seed yields a time-seeded generator; any other seed makes the
// output for a given key reproducible across runs and databases.
func NewRand(seed uint64, key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

// NeedsSynthesis reports whether a route with the given price and endpoint
// distance should receive a synthesized schedule. A price of 0 means unset.
func NeedsSynthesis(price int, distanceKm float64) bool {
	return price == 0 && distanceKm >= MinSynthesisDistanceKm
}

// Synthesize derives a plausible schedule for a route of the given length
func Synthesize(distanceKm float64, cruiseSpeedKmh, costPerHour int, rng Rand) Schedule {
	duration := int(math.Round(distanceKm / float64(cruiseSpeedKmh) * 60))
	if duration < 0 {
		duration = 0
	}
	if duration > MaxDurationMinutes {
		duration = MaxDurationMinutes
	}

	jitter := 1 + (rng.Float64()*2-1)*priceJitter
	price := int(float64(duration) / 60 * float64(costPerHour) * jitter)
	if price < 0 {
		price = 0
	}
	if duration > 0 && costPerHour > 0 && price == 0 {
		price = 1
	}

	return Schedule{
		DurationMinutes: duration,
		Price:           price,
		DepartureTimes:  departureTimes(duration, rng),
	}
}

func departureTimes(duration int, rng Rand) []int {
	t := rng.IntN(MinutesPerDay) / slotMinutes * slotMinutes

	var times []int
	for t < MinutesPerDay {
		times = append(times, t)
		gap := math.Max((rng.Float64()+0.8)*float64(duration), minGapMinutes)
		t += roundToSlot(gap)
	}
	return times
}

// roundToSlot rounds minutes to the nearest 15-minute boundary
func roundToSlot(minutes float64) int {
	return int(math.Round(minutes/slotMinutes)) * slotMinutes
}
