package schema

import "errors"

// Sentinel errors raised by the filter, aggregation and SPC stages.
// Callers wrap them with context and match them with errors.Is.
var (
	// ErrInvalidRange is returned when a date range has its start after its end.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnknownCategory is returned for airline, gate or cause values outside the enumeration.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInsufficientData is returned when a statistic needs more points than provided.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidParameter is returned when alpha, window or a selector is outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDivisionByZero is returned when a rate has a zero denominator.
	ErrDivisionByZero = errors.New("division by zero")
)
