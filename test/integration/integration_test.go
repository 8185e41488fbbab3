package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/refundcast/internal/calculation"
	"github.com/rgehrsitz/refundcast/internal/config"
	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/rgehrsitz/refundcast/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	monthlyConfig = "../testdata/model_input.yml"
	dailyConfig   = "../testdata/model_input_daily.yml"
)

func runForecast(t *testing.T, configFile string, mode domain.Mode) *domain.ForecastResult {
	t.Helper()
	parser := config.NewInputParser()
	cfg, portfolio, err := parser.LoadPortfolio(configFile)
	require.NoError(t, err, "Should load configuration and dataset")

	result, err := calculation.NewForecastEngine().Run(context.Background(), portfolio, cfg.Granularity(), mode)
	require.NoError(t, err, "Should run forecast")
	require.NotNil(t, result)
	return result
}

// TestBasicIntegration tests basic end-to-end functionality
func TestBasicIntegration(t *testing.T) {
	t.Run("configuration_loading", func(t *testing.T) {
		parser := config.NewInputParser()
		cfg, portfolio, err := parser.LoadPortfolio(monthlyConfig)
		require.NoError(t, err)

		assert.True(t, cfg.Monthly)
		assert.True(t, filepath.IsAbs(cfg.FilePath) || filepath.Base(cfg.FilePath) == "clients.csv")
		assert.Equal(t, 20, portfolio.Len())
		assert.Equal(t, "12849.99", portfolio.TotalValue().String())

		avg, err := portfolio.AverageLifetimeDays()
		require.NoError(t, err)
		assert.InDelta(t, 100.45, avg, 1e-9)
	})

	t.Run("monthly_cumulative", func(t *testing.T) {
		result := runForecast(t, monthlyConfig, domain.Cumulative)

		assert.Equal(t, 12, result.Periods)
		assert.InDelta(t, 100.45/30, result.Theta, 1e-9)
		assert.Equal(t, 26, result.CumulativePercent[1])
		assert.Equal(t, 43, result.CumulativePercent[2])
		assert.Equal(t, 55, result.CumulativePercent[3])
		assert.Equal(t, 72, result.CumulativePercent[6])
		assert.Equal(t, 77, result.CumulativePercent[12])
	})

	t.Run("monthly_per_period", func(t *testing.T) {
		result := runForecast(t, monthlyConfig, domain.PerPeriod)

		assert.Equal(t, 26, result.PerPeriodPercent[1])
		assert.Equal(t, 18, result.PerPeriodPercent[2])
		assert.Equal(t, 12, result.PerPeriodPercent[3])
		assert.Equal(t, 0, result.PerPeriodPercent[12])
	})

	t.Run("daily_cumulative", func(t *testing.T) {
		result := runForecast(t, dailyConfig, domain.Cumulative)

		assert.Equal(t, domain.Daily, result.Granularity)
		assert.Equal(t, 365, result.Periods)
		assert.InDelta(t, 100.45, result.Theta, 1e-9)
		assert.Equal(t, 1, result.CumulativePercent[1])
		assert.Equal(t, 11, result.CumulativePercent[12])
		assert.Equal(t, 73, result.CumulativePercent[365])
	})
}

// TestDataConsistency checks the relationships that hold between the series
func TestDataConsistency(t *testing.T) {
	for _, configFile := range []string{monthlyConfig, dailyConfig} {
		t.Run(filepath.Base(configFile), func(t *testing.T) {
			result := runForecast(t, configFile, domain.Cumulative)
			total := result.TotalValue.InexactFloat64()

			sum := 0.0
			for _, v := range result.PerPeriod.Values() {
				sum += v
			}
			assert.InDelta(t, result.Cumulative[result.Periods], sum, 1e-6, "period refunds should add up to the cumulative refund")

			prev := 0.0
			prevPct := 0
			for _, p := range result.Cumulative.Periods() {
				v := result.Cumulative[p]
				assert.GreaterOrEqual(t, v, prev, "cumulative refund must not decrease at period %d", p)
				assert.LessOrEqual(t, v, total)
				pct := result.CumulativePercent[p]
				assert.GreaterOrEqual(t, pct, prevPct)
				assert.GreaterOrEqual(t, pct, 0)
				assert.LessOrEqual(t, pct, 100)
				prev, prevPct = v, pct
			}

			assert.InDelta(t, result.Cumulative[result.Periods], result.TotalClientRefunds().InexactFloat64(), 0.01)
		})
	}
}

// TestOutputGeneration writes every registered format
func TestOutputGeneration(t *testing.T) {
	result := runForecast(t, monthlyConfig, domain.Cumulative)
	dir := t.TempDir()

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "forecast."+name)
			require.NoError(t, output.WriteFormatted(output.GetFormatterByName(name), result, path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	t.Run("json_contract", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "forecast.json"))
		require.NoError(t, err)

		var series map[string]int
		require.NoError(t, json.Unmarshal(data, &series))
		assert.Len(t, series, 12)
		assert.Equal(t, 77, series["12"])
		assert.Contains(t, string(data), "{\n    \"1\": 26,\n    \"2\": 43,")
	})
}

// TestErrorHandling covers invalid inputs end to end
func TestErrorHandling(t *testing.T) {
	parser := config.NewInputParser()

	t.Run("missing_filepath", func(t *testing.T) {
		_, _, err := parser.LoadPortfolio("../testdata/invalid_config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filepath is required")
	})

	t.Run("missing_config", func(t *testing.T) {
		_, _, err := parser.LoadPortfolio("../testdata/does_not_exist.yml")
		assert.Error(t, err)
	})

	t.Run("empty_dataset", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "clients.csv"), []byte("start,end,cost\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "model_input.yml"), []byte("monthly: true\nfilepath: clients.csv\n"), 0o644))

		cfg, portfolio, err := parser.LoadPortfolio(filepath.Join(dir, "model_input.yml"))
		require.NoError(t, err)

		_, err = calculation.NewForecastEngine().Run(context.Background(), portfolio, cfg.Granularity(), domain.Cumulative)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
		assert.True(t, domain.IsClientError(err))
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cfg, portfolio, err := parser.LoadPortfolio(monthlyConfig)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = calculation.NewForecastEngine().Run(ctx, portfolio, cfg.Granularity(), domain.Cumulative)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestConsistencyAcrossRuns makes sure repeated runs agree
func TestConsistencyAcrossRuns(t *testing.T) {
	first := runForecast(t, monthlyConfig, domain.Cumulative)
	second := runForecast(t, monthlyConfig, domain.Cumulative)

	assert.Equal(t, first.Cumulative, second.Cumulative)
	assert.Equal(t, first.CumulativePercent, second.CumulativePercent)
	assert.Equal(t, first.PerPeriodPercent, second.PerPeriodPercent)
}
