package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/tripwise/flight-planner/internal/itinerary"
)

// CodeshareFlag tells whether a route is operated by the listed airline
type CodeshareFlag int

const (
	Operated CodeshareFlag = iota
	Codeshare
)

// ParseCodeshareFlag maps the stored code ("Y" or empty) to a CodeshareFlag
func ParseCodeshareFlag(code string) (CodeshareFlag, error) {
	switch code {
	case "":
		return Operated, nil
	case "Y":
		return Codeshare, nil
	default:
		return Operated, fmt.Errorf("unknown codeshare code %q", code)
	}
}

func (c CodeshareFlag) String() string {
	if c == Codeshare {
		return "codeshare"
	}
	return "operated"
}

// Value implements the driver.Valuer interface
func (c CodeshareFlag) Value() (driver.Value, error) {
	if c == Codeshare {
		return "Y", nil
	}
	return "", nil
}

// Scan implements the sql.Scanner interface
func (c *CodeshareFlag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = Operated
		return nil
	case string:
		flag, err := ParseCodeshareFlag(v)
		*c = flag
		return err
	case []byte:
		flag, err := ParseCodeshareFlag(string(v))
		*c = flag
		return err
	default:
		return fmt.Errorf("cannot scan %T into CodeshareFlag", src)
	}
}

// MarshalJSON encodes the flag by name
func (c CodeshareFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Route represents an airline's service between two airports.
// A Price of 0 marks a route whose schedule has not been set yet.
type Route struct {
	ID              int64         `json:"id" db:"id"`
	SourceCode      string        `json:"source_code" db:"source_code"`
	DestinationCode string        `json:"destination_code" db:"destination_code"`
	AirlineCode     string        `json:"airline_code" db:"airline_code"`
	Codeshare       CodeshareFlag `json:"codeshare" db:"codeshare"`
	Stops           int           `json:"stops" db:"stops"`
	Equipment       string        `json:"equipment" db:"equipment"`
	DurationMinutes int           `json:"duration_minutes" db:"duration_minutes"`
	Price           int           `json:"price" db:"price"`
	DepartureTimes  MinuteArray   `json:"departure_times" db:"departure_times"`
}

// Key identifies the route by its source/destination/airline triple
func (r *Route) Key() string {
	return r.SourceCode + "-" + r.DestinationCode + "-" + r.AirlineCode
}

// HasSchedule reports whether the route carries pricing
func (r Route) HasSchedule() bool {
	return r.Price != 0
}

// ApplySchedule overwrites duration, price and departures with a synthesized schedule
func (r *Route) ApplySchedule(s itinerary.Schedule) {
	r.DurationMinutes = s.DurationMinutes
	r.Price = s.Price
	r.DepartureTimes = MinuteArray(s.DepartureTimes)
}

// ToItinerary converts the route to the validator's view of it
func (r *Route) ToItinerary() *itinerary.RouteSchedule {
	times := make([]int, len(r.DepartureTimes))
	copy(times, r.DepartureTimes)
	return &itinerary.RouteSchedule{
		Source:          r.SourceCode,
		Destination:     r.DestinationCode,
		Airline:         r.AirlineCode,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		DepartureTimes:  times,
	}
}
