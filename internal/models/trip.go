package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/flight-planner/internal/itinerary"
)

// Trip is a user's planned journey made of flight legs
type Trip struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FlightLeg is one booked flight within a trip. The route is referenced by
// its code triple, not a foreign key, since it may not exist.
type FlightLeg struct {
	ID               uuid.UUID `json:"id" db:"id"`
	TripID           uuid.UUID `json:"trip_id" db:"trip_id"`
	SourceCode       string    `json:"source_code" db:"source_code"`
	DestinationCode  string    `json:"destination_code" db:"destination_code"`
	AirlineCode      string    `json:"airline_code" db:"airline_code"`
	FlightDate       time.Time `json:"flight_date" db:"flight_date"`
	DepartureMinutes int       `json:"departure_minutes" db:"departure_minutes"`
	BookingReference *string   `json:"booking_reference,omitempty" db:"booking_reference"`
	Seat             *string   `json:"seat,omitempty" db:"seat"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ToItinerary converts the leg to the validator's view of it
func (l *FlightLeg) ToItinerary() itinerary.FlightLeg {
	return itinerary.FlightLeg{
		Source:           l.SourceCode,
		Destination:      l.DestinationCode,
		Airline:          l.AirlineCode,
		Date:             l.FlightDate,
		DepartureMinutes: l.DepartureMinutes,
	}
}

// Departure returns the absolute UTC take-off instant
func (l *FlightLeg) Departure() time.Time {
	return l.ToItinerary().Departure()
}

// DepartureClock returns the departure time of day as HH:MM
func (l *FlightLeg) DepartureClock() string {
	return itinerary.FormatClock(l.DepartureMinutes)
}

// CreateTripRequest represents the request to create a trip
type CreateTripRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

// AddFlightLegRequest represents the request to add a leg to a trip
type AddFlightLegRequest struct {
	SourceCode       string  `json:"source_code" binding:"required,min=3,max=4"`
	DestinationCode  string  `json:"destination_code" binding:"required,min=3,max=4"`
	AirlineCode      string  `json:"airline_code" binding:"required,min=2,max=3"`
	FlightDate       string  `json:"flight_date" binding:"required,datetime=2006-01-02"`
	DepartureTime    string  `json:"departure_time" binding:"required,datetime=15:04"`
	BookingReference *string `json:"booking_reference"`
	Seat             *string `json:"seat"`
	Notes            *string `json:"notes"`
}

// ToFlightLeg parses the request into a leg for the given trip
func (r *AddFlightLegRequest) ToFlightLeg(tripID uuid.UUID) (*FlightLeg, error) {
	date, err := time.Parse("2006-01-02", r.FlightDate)
	if err != nil {
		return nil, err
	}
	minutes, err := itinerary.ParseClock(r.DepartureTime)
	if err != nil {
		return nil, err
	}
	return &FlightLeg{
		TripID:           tripID,
		SourceCode:       r.SourceCode,
		DestinationCode:  r.DestinationCode,
		AirlineCode:      r.AirlineCode,
		FlightDate:       date,
		DepartureMinutes: minutes,
		BookingReference: r.BookingReference,
		Seat:             r.Seat,
		Notes:            r.Notes,
	}, nil
}
