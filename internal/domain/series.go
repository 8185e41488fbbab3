package domain

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RefundSeries maps a period index (1..N) to an expected refund amount.
// Map iteration order is random; consumers must go through Periods().
type RefundSeries map[int]float64

// Periods returns the period indexes in ascending order
func (s RefundSeries) Periods() []int {
	return sortedKeys(s)
}

// Values returns the refunds in period order
func (s RefundSeries) Values() []float64 {
	periods := s.Periods()
	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = s[p]
	}
	return values
}

// MarshalJSON writes the series as an object with numerically ordered keys
func (s RefundSeries) MarshalJSON() ([]byte, error) {
	return marshalOrdered(s.Periods(), func(p int) []byte {
		return strconv.AppendFloat(nil, s[p], 'f', -1, 64)
	}), nil
}

// PercentageSeries maps a period index to an integer percentage of the total reserve
type PercentageSeries map[int]int

// Periods returns the period indexes in ascending order
func (s PercentageSeries) Periods() []int {
	return sortedKeys(s)
}

// Values returns the percentages in period order
func (s PercentageSeries) Values() []int {
	periods := s.Periods()
	values := make([]int, len(periods))
	for i, p := range periods {
		values[i] = s[p]
	}
	return values
}

// MarshalJSON writes the series as an object with numerically ordered keys
func (s PercentageSeries) MarshalJSON() ([]byte, error) {
	return marshalOrdered(s.Periods(), func(p int) []byte {
		return strconv.AppendInt(nil, int64(s[p]), 10)
	}), nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// encoding/json sorts integer map keys as strings ("1", "10", "11", "2", ...)
func marshalOrdered(periods []int, value func(int) []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range periods {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(p))
		buf.WriteString(`":`)
		buf.Write(value(p))
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// ClientRefund is the expected refund for one client over the whole year
type ClientRefund struct {
	Index          int             `json:"index"`
	Cost           decimal.Decimal `json:"cost"`
	LifetimeDays   int             `json:"lifetimeDays"`
	ExpectedRefund decimal.Decimal `json:"expectedRefund"`
}

// ForecastResult is the complete output of one forecast run
type ForecastResult struct {
	Granularity         Granularity      `json:"granularity"`
	Mode                Mode             `json:"mode"`
	Periods             int              `json:"periods"`
	Clients             int              `json:"clients"`
	TotalValue          decimal.Decimal  `json:"totalValue"`
	AverageLifetimeDays float64          `json:"averageLifetimeDays"`
	Theta               float64          `json:"theta"`
	Cumulative          RefundSeries     `json:"cumulative"`
	PerPeriod           RefundSeries     `json:"perPeriod"`
	CumulativePercent   PercentageSeries `json:"cumulativePercent"`
	PerPeriodPercent    PercentageSeries `json:"perPeriodPercent"`
	ClientRefunds       []ClientRefund   `json:"clientRefunds,omitempty"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}

// Series returns the refund series for the given mode
func (r *ForecastResult) Series(mode Mode) RefundSeries {
	if mode == PerPeriod {
		return r.PerPeriod
	}
	return r.Cumulative
}

// Percentages returns the percentage series for the given mode
func (r *ForecastResult) Percentages(mode Mode) PercentageSeries {
	if mode == PerPeriod {
		return r.PerPeriodPercent
	}
	return r.CumulativePercent
}

// TotalClientRefunds sums the per-client expected refunds
func (r *ForecastResult) TotalClientRefunds() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.ClientRefunds {
		total = total.Add(c.ExpectedRefund)
	}
	return total
}
