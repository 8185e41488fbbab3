package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the forecast packages. Use with errors.Is().
var (
	// ErrInvalidInput is returned for a non-positive subscription cost.
	ErrInvalidInput = errors.New("invalid input: cost must be positive")

	// ErrOutOfRange is returned when a period index falls outside [1, N].
	ErrOutOfRange = errors.New("period out of range")

	// ErrInvalidParameter is returned when the lifetime scale is not a positive finite number.
	ErrInvalidParameter = errors.New("invalid parameter: lifetime scale must be positive")

	// ErrEmptyPortfolio is returned when a portfolio has no records or no total value.
	ErrEmptyPortfolio = errors.New("empty portfolio")
)

// PeriodError reports which period was requested and how many the granularity has.
type PeriodError struct {
	Period  int
	Periods int
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("period %d outside [1, %d]", e.Period, e.Periods)
}

func (e *PeriodError) Unwrap() error {
	return ErrOutOfRange
}

// IsClientError returns true if the error was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrEmptyPortfolio)
}
