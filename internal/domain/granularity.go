package domain

import (
	"fmt"
	"strings"
)

// Granularity is the time unit used to bucket the forecast year
type Granularity int

const (
	Monthly Granularity = iota
	Daily
)

const (
	monthsPerYear = 12
	daysPerYear   = 365
	daysPerMonth  = 30.0
)

// GranularityFromMonthly maps the configuration's monthly flag to a granularity
func GranularityFromMonthly(monthly bool) Granularity {
	if monthly {
		return Monthly
	}
	return Daily
}

// ParseGranularity accepts "monthly"/"month" and "daily"/"day"
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "m":
		return Monthly, nil
	case "daily", "day", "d":
		return Daily, nil
	default:
		return Monthly, fmt.Errorf("unknown granularity %q (valid: monthly, daily)", s)
	}
}

// Periods is the number of periods in the forecast year
func (g Granularity) Periods() int {
	if g == Monthly {
		return monthsPerYear
	}
	return daysPerYear
}

// LifetimeScale converts an average lifetime in days into period units (theta)
func (g Granularity) LifetimeScale(averageLifetimeDays float64) float64 {
	if g == Monthly {
		return averageLifetimeDays / daysPerMonth
	}
	return averageLifetimeDays
}

// Unit is the singular name of one period
func (g Granularity) Unit() string {
	if g == Monthly {
		return "month"
	}
	return "day"
}

func (g Granularity) String() string {
	switch g {
	case Monthly:
		return "monthly"
	case Daily:
		return "daily"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// MarshalText implements encoding.TextMarshaler
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Mode selects between cumulative and single-period refund series
type Mode int

const (
	Cumulative Mode = iota
	PerPeriod
)

// ParseMode accepts "cumulative" and "per_period" (also "per-period", "period")
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cumulative", "cum":
		return Cumulative, nil
	case "per_period", "per-period", "period", "single":
		return PerPeriod, nil
	default:
		return Cumulative, fmt.Errorf("unknown mode %q (valid: cumulative, per_period)", s)
	}
}

func (m Mode) String() string {
	if m == PerPeriod {
		return "per_period"
	}
	return "cumulative"
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
