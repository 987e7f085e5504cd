package itinerary

import (
	"encoding/json"
	"fmt"
)

// Severity classifies a diagnostic
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// MarshalJSON encodes the severity by name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "none", "":
		*s = SeverityNone
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Diagnostic codes
const (
	CodeRouteNotFound              = "route_not_found"
	CodeSourceAirportNotFound      = "source_airport_not_found"
	CodeDestinationAirportNotFound = "destination_airport_not_found"
	CodeNoScheduledFlights         = "no_scheduled_flights"
	CodeDepartureNotScheduled      = "departure_not_scheduled"
	CodeOverlappingFlights         = "overlapping_flights"
	CodeShortInternationalLayover  = "short_international_connection"
	CodeShortDomesticLayover       = "short_domestic_connection"
	CodeMissingConnection          = "missing_connection"
)

// Diagnostic is the outcome of validating one leg of an itinerary
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// OK reports whether the leg passed every check
func (d Diagnostic) OK() bool {
	return d.Severity == SeverityNone
}

func errorf(code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func warningf(code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}
