package models

// Airline represents an operating or marketing airline
type Airline struct {
	Code     string `json:"code" db:"code"` // IATA
	ICAO     string `json:"icao" db:"icao"`
	Name     string `json:"name" db:"name"`
	Callsign string `json:"callsign" db:"callsign"`
	Country  string `json:"country" db:"country"`
	Active   bool   `json:"active" db:"active"`
}
