package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// ClientRecord is one subscription observed in the client dataset
type ClientRecord struct {
	SubscriptionStart time.Time       `yaml:"start" json:"start"`
	SubscriptionEnd   time.Time       `yaml:"end" json:"end"`
	Cost              decimal.Decimal `yaml:"cost" json:"cost"`
}

// NewClientRecord builds a record with both dates truncated to calendar days (UTC)
func NewClientRecord(start, end time.Time, cost decimal.Decimal) ClientRecord {
	return ClientRecord{
		SubscriptionStart: calendarDay(start),
		SubscriptionEnd:   calendarDay(end),
		Cost:              cost,
	}
}

// LifetimeDays returns the whole number of days the membership lasted
func (c ClientRecord) LifetimeDays() int {
	return int(calendarDay(c.SubscriptionEnd).Sub(calendarDay(c.SubscriptionStart)) / (24 * time.Hour))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Portfolio is the read-only set of client records sharing one reserve currency.
// It is built once by the dataset loader and never mutated afterwards.
type Portfolio struct {
	records []ClientRecord
}

// NewPortfolio copies records into a new portfolio
func NewPortfolio(records []ClientRecord) Portfolio {
	cp := make([]ClientRecord, len(records))
	copy(cp, records)
	return Portfolio{records: cp}
}

// Len returns the number of client records
func (p Portfolio) Len() int {
	return len(p.records)
}

// Records returns a copy of the client records in dataset order
func (p Portfolio) Records() []ClientRecord {
	cp := make([]ClientRecord, len(p.records))
	copy(cp, p.records)
	return cp
}

// TotalValue is the sum of all subscription costs (the total reserve)
func (p Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.records {
		total = total.Add(r.Cost)
	}
	return total
}

// AverageLifetimeDays is the mean membership duration in days
func (p Portfolio) AverageLifetimeDays() (float64, error) {
	if len(p.records) == 0 {
		return 0, ErrEmptyPortfolio
	}
	days := make([]float64, len(p.records))
	for i, r := range p.records {
		days[i] = float64(r.LifetimeDays())
	}
	return stat.Mean(days, nil), nil
}
