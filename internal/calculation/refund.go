package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// RefundCalculator computes expected prorated refunds for a single cost when the
// membership lifetime is exponentially distributed with mean averageLifetime days.
// The granularity is fixed at construction; build a new calculator to change it.
type RefundCalculator struct {
	averageLifetime float64
	granularity     domain.Granularity
}

// NewRefundCalculator creates a calculator for the given average lifetime (days)
func NewRefundCalculator(averageLifetime float64, granularity domain.Granularity) *RefundCalculator {
	return &RefundCalculator{
		averageLifetime: averageLifetime,
		granularity:     granularity,
	}
}

// Granularity returns the time scale the calculator was built with
func (rc *RefundCalculator) Granularity() domain.Granularity {
	return rc.granularity
}

// Parameters returns the prorated refund decrement per period, the lifetime scale
// theta in period units, and the period indexes 1..N.
func (rc *RefundCalculator) Parameters(cost float64) (unitValue, theta float64, periods []int, err error) {
	if !(cost > 0) || math.IsInf(cost, 0) {
		return 0, 0, nil, fmt.Errorf("cost %v: %w", cost, domain.ErrInvalidInput)
	}
	theta = rc.granularity.LifetimeScale(rc.averageLifetime)
	if err := checkTheta(theta); err != nil {
		return 0, 0, nil, err
	}

	n := rc.granularity.Periods()
	periods = make([]int, n)
	for i := range periods {
		periods[i] = i + 1
	}
	return cost / float64(n), theta, periods, nil
}

// CDF is the exponential cumulative distribution 1 - exp(-x/theta)
func CDF(x, theta float64) (float64, error) {
	if err := checkTheta(theta); err != nil {
		return 0, err
	}
	return exponential(theta).CDF(x), nil
}

// PDF is the exponential density (1/theta) * exp(-x/theta)
func PDF(x, theta float64) (float64, error) {
	if err := checkTheta(theta); err != nil {
		return 0, err
	}
	return exponential(theta).Prob(x), nil
}

// ExpectedCumulativeRefund is the expected refund liability through period t:
//
//	E = cost*P(X<=1) + (cost-u)*P(1<X<=2) + ... + (cost-(t-1)u)*P(t-1<X<=t)
func (rc *RefundCalculator) ExpectedCumulativeRefund(cost float64, t int) (float64, error) {
	unitValue, theta, periods, err := rc.Parameters(cost)
	if err != nil {
		return 0, err
	}
	if t < 1 || t > len(periods) {
		return 0, &domain.PeriodError{Period: t, Periods: len(periods)}
	}

	dist := exponential(theta)
	if t == 1 {
		return cost * dist.CDF(1), nil
	}

	var pos, neg float64
	for k := 1; k <= t; k++ {
		value := cost - float64(k-1)*unitValue
		pos += value * dist.CDF(float64(periods[k-1]))
		if k >= 2 {
			neg += value * dist.CDF(float64(periods[k-2]))
		}
	}
	return pos - neg, nil
}

// ExpectedSinglePeriodRefund is the share of the expected refund attributable to
// period t alone: its prorated value times the density mass on (t-1, t].
// Summing it over 1..t gives ExpectedCumulativeRefund(cost, t); the point density
// PDF(t) is not used because it would break that sum.
func (rc *RefundCalculator) ExpectedSinglePeriodRefund(cost float64, t int) (float64, error) {
	unitValue, theta, periods, err := rc.Parameters(cost)
	if err != nil {
		return 0, err
	}
	if t < 1 || t > len(periods) {
		return 0, &domain.PeriodError{Period: t, Periods: len(periods)}
	}

	dist := exponential(theta)
	if t == 1 {
		return cost * periodMass(dist, 0, 1), nil
	}
	value := cost - float64(t-1)*unitValue
	return value * periodMass(dist, float64(periods[t-2]), float64(periods[t-1])), nil
}

// periodMass integrates the density over (from, to]. The exponential density has
// the closed form exp(-from/theta) - exp(-to/theta), which is CDF(to) - CDF(from).
func periodMass(dist distuv.Exponential, from, to float64) float64 {
	return dist.CDF(to) - dist.CDF(from)
}

func exponential(theta float64) distuv.Exponential {
	return distuv.Exponential{Rate: 1 / theta}
}

func checkTheta(theta float64) error {
	if !(theta > 0) || math.IsInf(theta, 0) {
		return fmt.Errorf("theta %v: %w", theta, domain.ErrInvalidParameter)
	}
	return nil
}
