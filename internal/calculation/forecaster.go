package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
)

// PortfolioForecaster aggregates refund expectations over a client portfolio.
// It is immutable: the portfolio and granularity are fixed at construction.
type PortfolioForecaster struct {
	portfolio   domain.Portfolio
	granularity domain.Granularity
}

// NewPortfolioForecaster creates a forecaster for a portfolio at the given granularity
func NewPortfolioForecaster(portfolio domain.Portfolio, granularity domain.Granularity) *PortfolioForecaster {
	return &PortfolioForecaster{
		portfolio:   portfolio,
		granularity: granularity,
	}
}

// Granularity returns the forecaster's time scale
func (pf *PortfolioForecaster) Granularity() domain.Granularity {
	return pf.granularity
}

// Portfolio returns the forecaster's client portfolio
func (pf *PortfolioForecaster) Portfolio() domain.Portfolio {
	return pf.portfolio
}

// AverageMembershipDuration is the mean subscription duration in days
func (pf *PortfolioForecaster) AverageMembershipDuration() (float64, error) {
	avg, err := pf.portfolio.AverageLifetimeDays()
	if err != nil {
		return 0, fmt.Errorf("average membership duration: %w", err)
	}
	return avg, nil
}

// Theta is the mean lifetime expressed in the granularity's period units
func (pf *PortfolioForecaster) Theta() (float64, error) {
	avg, err := pf.AverageMembershipDuration()
	if err != nil {
		return 0, err
	}
	return pf.granularity.LifetimeScale(avg), nil
}

// RefundSeries computes the refund for every period 1..N on the portfolio total value
func (pf *PortfolioForecaster) RefundSeries(mode domain.Mode) (domain.RefundSeries, error) {
	calc, total, err := pf.portfolioCalculator()
	if err != nil {
		return nil, err
	}

	refund := calc.ExpectedCumulativeRefund
	if mode == domain.PerPeriod {
		refund = calc.ExpectedSinglePeriodRefund
	}

	n := pf.granularity.Periods()
	series := make(domain.RefundSeries, n)
	for t := 1; t <= n; t++ {
		value, err := refund(total, t)
		if err != nil {
			return nil, fmt.Errorf("%s refund for %s %d: %w", mode, pf.granularity.Unit(), t, err)
		}
		series[t] = value
	}
	return series, nil
}

// PercentageSeries converts the refund series into whole percentages of the
// total reserve, rounding half away from zero.
func (pf *PortfolioForecaster) PercentageSeries(mode domain.Mode) (domain.PercentageSeries, error) {
	total := pf.portfolio.TotalValue()
	if !total.IsPositive() {
		return nil, fmt.Errorf("percentage series: total value %s: %w", total.String(), domain.ErrEmptyPortfolio)
	}

	refunds, err := pf.RefundSeries(mode)
	if err != nil {
		return nil, err
	}
	return ToPercentages(refunds, total.InexactFloat64()), nil
}

// ToPercentages maps each refund to round(refund*100/total)
func ToPercentages(refunds domain.RefundSeries, total float64) domain.PercentageSeries {
	out := make(domain.PercentageSeries, len(refunds))
	for period, refund := range refunds {
		out[period] = int(math.Round(refund * 100 / total))
	}
	return out
}

// PerClientYearRefund applies the yearly cumulative refund to each client's own
// cost, assuming every client shares the portfolio's average lifetime. A zero-cost
// client gets a zero refund instead of the ErrInvalidInput RefundCalculator returns.
func (pf *PortfolioForecaster) PerClientYearRefund() ([]domain.ClientRefund, error) {
	avg, err := pf.AverageMembershipDuration()
	if err != nil {
		return nil, err
	}
	calc := NewRefundCalculator(avg, pf.granularity)
	n := pf.granularity.Periods()

	records := pf.portfolio.Records()
	refunds := make([]domain.ClientRefund, len(records))
	for i, r := range records {
		refunds[i] = domain.ClientRefund{
			Index:          i,
			Cost:           r.Cost,
			LifetimeDays:   r.LifetimeDays(),
			ExpectedRefund: decimal.Zero,
		}
		// A free subscription owes nothing back.
		if r.Cost.IsZero() {
			continue
		}
		value, err := calc.ExpectedCumulativeRefund(r.Cost.InexactFloat64(), n)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", i, err)
		}
		refunds[i].ExpectedRefund = decimal.NewFromFloat(value)
	}
	return refunds, nil
}

func (pf *PortfolioForecaster) portfolioCalculator() (*RefundCalculator, float64, error) {
	avg, err := pf.AverageMembershipDuration()
	if err != nil {
		return nil, 0, err
	}
	total := pf.portfolio.TotalValue()
	if !total.IsPositive() {
		return nil, 0, fmt.Errorf("total value %s: %w", total.String(), domain.ErrEmptyPortfolio)
	}
	return NewRefundCalculator(avg, pf.granularity), total.InexactFloat64(), nil
}

// Forecast runs a portfolio forecast for one mode and returns both the refund
// amounts and their percentages of the total reserve.
func Forecast(portfolio domain.Portfolio, granularity domain.Granularity, mode domain.Mode) (domain.RefundSeries, domain.PercentageSeries, error) {
	pf := NewPortfolioForecaster(portfolio, granularity)
	refunds, err := pf.RefundSeries(mode)
	if err != nil {
		return nil, nil, err
	}
	return refunds, ToPercentages(refunds, portfolio.TotalValue().InexactFloat64()), nil
}
