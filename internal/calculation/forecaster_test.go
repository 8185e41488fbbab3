package calculation

import (
	"math"
	"testing"
	"time"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(start string, days int, cost int64) domain.ClientRecord {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	return domain.NewClientRecord(s, s.AddDate(0, 0, days), decimal.NewFromInt(cost))
}

// shortLivedPortfolio has memberships lasting one or two days
func shortLivedPortfolio() domain.Portfolio {
	return domain.NewPortfolio([]domain.ClientRecord{
		record("2023-01-01", 1, 100),
		record("2023-02-10", 2, 200),
		record("2023-03-15", 1, 300),
	})
}

func sampleRecords() []domain.ClientRecord {
	return []domain.ClientRecord{
		record("2022-01-01", 120, 1200),
		record("2022-03-01", 200, 600),
		record("2022-05-15", 45, 300),
		record("2022-07-01", 365, 900),
		record("2022-09-01", 90, 450),
	}
}

func TestPortfolioForecaster_AverageMembershipDuration(t *testing.T) {
	pf := NewPortfolioForecaster(domain.NewPortfolio(sampleRecords()), domain.Monthly)

	avg, err := pf.AverageMembershipDuration()
	require.NoError(t, err)
	assert.InDelta(t, (120.0+200+45+365+90)/5, avg, 1e-12)

	theta, err := pf.Theta()
	require.NoError(t, err)
	assert.InDelta(t, avg/30, theta, 1e-12)
}

func TestPortfolioForecaster_EmptyPortfolio(t *testing.T) {
	pf := NewPortfolioForecaster(domain.NewPortfolio(nil), domain.Monthly)

	_, err := pf.AverageMembershipDuration()
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)

	_, err = pf.PercentageSeries(domain.Cumulative)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)

	_, err = pf.RefundSeries(domain.PerPeriod)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)

	_, err = pf.PerClientYearRefund()
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
}

func TestPortfolioForecaster_ZeroTotalValue(t *testing.T) {
	pf := NewPortfolioForecaster(domain.NewPortfolio([]domain.ClientRecord{
		record("2022-01-01", 30, 0),
		record("2022-02-01", 60, 0),
	}), domain.Monthly)

	_, err := pf.PercentageSeries(domain.Cumulative)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)

	_, err = pf.RefundSeries(domain.Cumulative)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
}

func TestPortfolioForecaster_ZeroLifetime(t *testing.T) {
	pf := NewPortfolioForecaster(domain.NewPortfolio([]domain.ClientRecord{
		record("2022-01-01", 0, 100),
	}), domain.Daily)

	_, err := pf.RefundSeries(domain.Cumulative)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestPortfolioForecaster_RefundSeries_CoversAllPeriods(t *testing.T) {
	for _, g := range []domain.Granularity{domain.Monthly, domain.Daily} {
		for _, mode := range []domain.Mode{domain.Cumulative, domain.PerPeriod} {
			pf := NewPortfolioForecaster(domain.NewPortfolio(sampleRecords()), g)

			series, err := pf.RefundSeries(mode)
			require.NoError(t, err)
			require.Len(t, series, g.Periods())

			periods := series.Periods()
			for i, p := range periods {
				assert.Equal(t, i+1, p, "%s/%s has a gap", g, mode)
			}
		}
	}
}

func TestPortfolioForecaster_RefundSeries_MatchesCalculator(t *testing.T) {
	portfolio := domain.NewPortfolio(sampleRecords())
	pf := NewPortfolioForecaster(portfolio, domain.Monthly)

	series, err := pf.RefundSeries(domain.Cumulative)
	require.NoError(t, err)

	avg, err := portfolio.AverageLifetimeDays()
	require.NoError(t, err)
	calc := NewRefundCalculator(avg, domain.Monthly)
	total := portfolio.TotalValue().InexactFloat64()
	for _, period := range []int{1, 6, 12} {
		want, err := calc.ExpectedCumulativeRefund(total, period)
		require.NoError(t, err)
		assert.Equal(t, want, series[period])
	}
}

func TestPortfolioForecaster_PercentageSeries_Monotonic(t *testing.T) {
	for _, g := range []domain.Granularity{domain.Monthly, domain.Daily} {
		pf := NewPortfolioForecaster(domain.NewPortfolio(sampleRecords()), g)

		percents, err := pf.PercentageSeries(domain.Cumulative)
		require.NoError(t, err)
		require.Len(t, percents, g.Periods())

		prev := 0
		for _, v := range percents.Values() {
			assert.GreaterOrEqual(t, v, prev)
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
			prev = v
		}
	}
}

func TestPortfolioForecaster_ThreeClientsReleaseFullReserve(t *testing.T) {
	portfolio := shortLivedPortfolio()
	assert.True(t, portfolio.TotalValue().Equal(decimal.NewFromInt(600)))

	pf := NewPortfolioForecaster(portfolio, domain.Monthly)
	percents, err := pf.PercentageSeries(domain.Cumulative)
	require.NoError(t, err)

	assert.InDelta(t, 100, percents[12], 1)
}

func TestPortfolioForecaster_PercentageSeries_PerPeriod(t *testing.T) {
	pf := NewPortfolioForecaster(domain.NewPortfolio(sampleRecords()), domain.Monthly)

	refunds, err := pf.RefundSeries(domain.PerPeriod)
	require.NoError(t, err)
	percents, err := pf.PercentageSeries(domain.PerPeriod)
	require.NoError(t, err)

	total := 3450.0
	for period, refund := range refunds {
		assert.Equal(t, int(math.Round(refund*100/total)), percents[period])
	}
}

func TestToPercentages_RoundsHalfAwayFromZero(t *testing.T) {
	percents := ToPercentages(domain.RefundSeries{1: 12.5, 2: 13.5, 3: 14.49}, 100)

	assert.Equal(t, 13, percents[1])
	assert.Equal(t, 14, percents[2])
	assert.Equal(t, 14, percents[3])
}

func TestPortfolioForecaster_PerClientYearRefund(t *testing.T) {
	records := sampleRecords()
	records = append(records, record("2022-10-01", 10, 0))
	portfolio := domain.NewPortfolio(records)
	pf := NewPortfolioForecaster(portfolio, domain.Monthly)

	refunds, err := pf.PerClientYearRefund()
	require.NoError(t, err)
	require.Len(t, refunds, len(records))

	avg, err := portfolio.AverageLifetimeDays()
	require.NoError(t, err)
	calc := NewRefundCalculator(avg, domain.Monthly)

	for i, r := range refunds {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.Cost.Equal(records[i].Cost))
		if r.Cost.IsZero() {
			assert.True(t, r.ExpectedRefund.IsZero(), "free subscription refunds nothing")
			_, err := calc.ExpectedCumulativeRefund(0, 12)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "the calculator itself still rejects a zero cost")
			continue
		}
		want, err := calc.ExpectedCumulativeRefund(r.Cost.InexactFloat64(), 12)
		require.NoError(t, err)
		assert.InDelta(t, want, r.ExpectedRefund.InexactFloat64(), 1e-9)
		assert.True(t, r.ExpectedRefund.LessThanOrEqual(r.Cost))
	}
}

func TestForecast(t *testing.T) {
	refunds, percents, err := Forecast(domain.NewPortfolio(sampleRecords()), domain.Daily, domain.Cumulative)
	require.NoError(t, err)
	assert.Len(t, refunds, 365)
	assert.Len(t, percents, 365)
	assert.LessOrEqual(t, refunds[365], 3450.0)

	_, _, err = Forecast(domain.NewPortfolio(nil), domain.Daily, domain.Cumulative)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
}
