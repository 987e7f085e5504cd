package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// MinuteArray is a custom type for handling INTEGER[] minute-of-day columns in PostgreSQL
type MinuteArray []int

// Value implements the driver.Valuer interface
func (a MinuteArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	ints := make(pq.Int64Array, len(a))
	for i, m := range a {
		ints[i] = int64(m)
	}
	return ints.Value()
}

// Scan implements the sql.Scanner interface
func (a *MinuteArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var ints pq.Int64Array
	if err := ints.Scan(src); err != nil {
		return fmt.Errorf("failed to scan minute array: %w", err)
	}
	out := make(MinuteArray, len(ints))
	for i, m := range ints {
		out[i] = int(m)
	}
	*a = out
	return nil
}
