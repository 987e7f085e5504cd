package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/tripwise/flight-planner/internal/itinerary"
)

// DSTRule is the daylight-saving convention an airport follows
type DSTRule int

const (
	DSTUnknown DSTRule = iota
	DSTEurope
	DSTNorthAmerica
	DSTSouthAmerica
	DSTAustralia
	DSTNewZealand
	DSTNone
)

var dstLetters = map[DSTRule]string{
	DSTUnknown:      "U",
	DSTEurope:       "E",
	DSTNorthAmerica: "A",
	DSTSouthAmerica: "S",
	DSTAustralia:    "O",
	DSTNewZealand:   "Z",
	DSTNone:         "N",
}

var dstNames = map[DSTRule]string{
	DSTUnknown:      "unknown",
	DSTEurope:       "europe",
	DSTNorthAmerica: "north_america",
	DSTSouthAmerica: "south_america",
	DSTAustralia:    "australia",
	DSTNewZealand:   "new_zealand",
	DSTNone:         "none",
}

// ParseDSTRule maps the stored single-letter code to a DSTRule
func ParseDSTRule(letter string) (DSTRule, error) {
	for rule, l := range dstLetters {
		if l == letter {
			return rule, nil
		}
	}
	return DSTUnknown, fmt.Errorf("unknown DST code %q", letter)
}

// Letter returns the single-letter code stored in the database
func (d DSTRule) Letter() string {
	if l, ok := dstLetters[d]; ok {
		return l
	}
	return "U"
}

func (d DSTRule) String() string {
	if n, ok := dstNames[d]; ok {
		return n
	}
	return "unknown"
}

// Value implements the driver.Valuer interface
func (d DSTRule) Value() (driver.Value, error) {
	return d.Letter(), nil
}

// Scan implements the sql.Scanner interface
func (d *DSTRule) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = DSTUnknown
		return nil
	case string:
		rule, err := ParseDSTRule(v)
		*d = rule
		return err
	case []byte:
		rule, err := ParseDSTRule(string(v))
		*d = rule
		return err
	default:
		return fmt.Errorf("cannot scan %T into DSTRule", src)
	}
}

// MarshalJSON encodes the rule by name
func (d DSTRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Airport represents an airport with its location
type Airport struct {
	Code           string  `json:"code" db:"code"` // IATA
	ICAO           string  `json:"icao" db:"icao"`
	Name           string  `json:"name" db:"name"`
	City           string  `json:"city" db:"city"`
	Country        string  `json:"country" db:"country"`
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	Altitude       int     `json:"altitude" db:"altitude"` // feet
	TimezoneOffset float64 `json:"timezone_offset" db:"timezone_offset"`
	DST            DSTRule `json:"dst" db:"dst"`
	TzName         string  `json:"tz_name" db:"tz_name"`
}

// Location returns the airport coordinates
func (a *Airport) Location() itinerary.GeoPoint {
	return itinerary.GeoPoint{Latitude: a.Latitude, Longitude: a.Longitude}
}

// ToItinerary converts the airport to the validator's view of it
func (a *Airport) ToItinerary() *itinerary.Airport {
	return &itinerary.Airport{
		Code:     a.Code,
		Country:  a.Country,
		Location: a.Location(),
	}
}

// DisplayName returns a formatted airport display name
func (a *Airport) DisplayName() string {
	return a.Code + " - " + a.Name + ", " + a.City
}
