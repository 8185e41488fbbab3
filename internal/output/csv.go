package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/refundcast/internal/domain"
)

// CSVFormatter writes one row per period with both series
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "CumulativeRefund", "CumulativePercent", "PeriodRefund", "PeriodPercent"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, period := range result.Cumulative.Periods() {
		row := []string{
			strconv.Itoa(period),
			money(result.Cumulative[period]).StringFixed(2),
			strconv.Itoa(result.CumulativePercent[period]),
			money(result.PerPeriod[period]).StringFixed(2),
			strconv.Itoa(result.PerPeriodPercent[period]),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ClientsCSV writes the per-client expected yearly refunds
func ClientsCSV(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Client", "Cost", "LifetimeDays", "ExpectedRefund"}); err != nil {
		return nil, err
	}
	for _, c := range result.ClientRefunds {
		row := []string{
			strconv.Itoa(c.Index),
			c.Cost.StringFixed(2),
			strconv.Itoa(c.LifetimeDays),
			c.ExpectedRefund.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
