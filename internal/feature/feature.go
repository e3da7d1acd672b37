package feature

import (
	"errors"
	"fmt"
	"strings"
)

// Feature is a single spectral measurement read from one table row.
// Missing or non-numeric cells are stored as NaN.
type Feature struct {
	OriginalIndex int     // 1-based row number in the source table
	Mz            float64 // mass-to-charge ratio
	RTRaw         float64 // retention time as found in the table
	RTSeconds     float64 // retention time in seconds
}

// Set is an ordered collection of features from one table.
// A Set must not be modified after it has been created by Normalize.
type Set struct {
	Name     string
	Features []Feature
	RTScale  float64 // factor applied to the raw retention times (60 or 1)
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Features)
}

// RTUnit selects how raw retention times are converted to seconds
type RTUnit int

const (
	UnitAuto RTUnit = iota // minutes if the maximum raw value is below rtMinutesLimit
	UnitMinutes
	UnitSeconds
)

// ParseRTUnit converts a user supplied unit name
func ParseRTUnit(s string) (RTUnit, error) {
	switch strings.ToLower(s) {
	case ``, `auto`:
		return UnitAuto, nil
	case `min`, `minutes`:
		return UnitMinutes, nil
	case `s`, `sec`, `seconds`:
		return UnitSeconds, nil
	}
	return UnitAuto, errors.New("unknown retention time unit: " + s)
}

func (u RTUnit) String() string {
	switch u {
	case UnitMinutes:
		return `minutes`
	case UnitSeconds:
		return `seconds`
	}
	return `auto`
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrInvalidValue   = errors.New("no usable numeric values")
)

// ColumnNotFoundError is returned when a requested column is absent
type ColumnNotFoundError struct {
	Table     string
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: column %q not found (available: %s)",
		e.Table, e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }

// InvalidValueError is returned when a column holds no numeric value at all
type InvalidValueError struct {
	Table  string
	Column string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: column %q contains no numeric values", e.Table, e.Column)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }
