package calculation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// ForecastEngine runs a complete forecast: both refund series, their percentages
// and the per-client table. RefundCalculator and PortfolioForecaster stay silent;
// the engine is the only layer that logs.
type ForecastEngine struct {
	Logger Logger
	Now    func() time.Time
}

// NewForecastEngine creates an engine with a no-op logger
func NewForecastEngine() *ForecastEngine {
	return &ForecastEngine{
		Logger: NopLogger{},
		Now:    time.Now,
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (fe *ForecastEngine) SetLogger(l Logger) {
	if l == nil {
		fe.Logger = NopLogger{}
		return
	}
	fe.Logger = l
}

// Run forecasts the portfolio at the given granularity. mode only selects the
// primary series recorded on the result; both series are always computed.
func (fe *ForecastEngine) Run(ctx context.Context, portfolio domain.Portfolio, granularity domain.Granularity, mode domain.Mode) (*domain.ForecastResult, error) {
	log := fe.logger()
	pf := NewPortfolioForecaster(portfolio, granularity)

	avg, err := pf.AverageMembershipDuration()
	if err != nil {
		log.Errorf("forecast aborted: %v", err)
		return nil, err
	}
	total := portfolio.TotalValue()
	theta := granularity.LifetimeScale(avg)
	log.Infof("forecasting %d clients, total value %s, %s granularity", portfolio.Len(), total.StringFixed(2), granularity)
	log.Debugf("average lifetime %.4f days, theta %.6f %ss", avg, theta, granularity.Unit())

	result := &domain.ForecastResult{
		Granularity:         granularity,
		Mode:                mode,
		Periods:             granularity.Periods(),
		Clients:             portfolio.Len(),
		TotalValue:          total,
		AverageLifetimeDays: avg,
		Theta:               theta,
		GeneratedAt:         fe.now().UTC(),
	}

	for _, m := range []domain.Mode{domain.Cumulative, domain.PerPeriod} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refunds, err := pf.RefundSeries(m)
		if err != nil {
			log.Errorf("%s series failed: %v", m, err)
			return nil, fmt.Errorf("%s series: %w", m, err)
		}
		percents := ToPercentages(refunds, total.InexactFloat64())
		if m == domain.Cumulative {
			result.Cumulative, result.CumulativePercent = refunds, percents
		} else {
			result.PerPeriod, result.PerPeriodPercent = refunds, percents
		}
		log.Debugf("%s series: last %s %d -> %.2f (%d%%)", m, granularity.Unit(), result.Periods, refunds[result.Periods], percents[result.Periods])
	}

	if sum := floats.Sum(result.PerPeriod.Values()); math.Abs(sum-result.Cumulative[result.Periods]) > 1e-6 {
		log.Warnf("per-%s refunds sum to %.6f, cumulative refund is %.6f", granularity.Unit(), sum, result.Cumulative[result.Periods])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clients, err := pf.PerClientYearRefund()
	if err != nil {
		log.Errorf("per-client refunds failed: %v", err)
		return nil, fmt.Errorf("per-client refunds: %w", err)
	}
	result.ClientRefunds = clients

	if diff := result.TotalClientRefunds().Sub(decimal.NewFromFloat(result.Cumulative[result.Periods])).Abs(); diff.GreaterThan(decimal.NewFromFloat(0.01)) {
		// Per-client refunds are linear in cost, so they should add up to the portfolio figure.
		log.Warnf("per-client refunds differ from portfolio refund by %s", diff.StringFixed(4))
	}
	return result, nil
}

func (fe *ForecastEngine) logger() Logger {
	if fe.Logger == nil {
		return NopLogger{}
	}
	return fe.Logger
}

func (fe *ForecastEngine) now() time.Time {
	if fe.Now == nil {
		return time.Now()
	}
	return fe.Now()
}
