package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/refundcast/internal/domain"
)

// ConsoleFormatter renders a plain-text summary table of the forecast
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	var buf bytes.Buffer
	unit := result.Granularity.Unit()

	buf.WriteString("PRORATED REFUND RESERVE FORECAST\n")
	buf.WriteString(strings.Repeat("=", 72) + "\n")
	fmt.Fprintf(&buf, "Granularity:          %s (%d periods)\n", result.Granularity, result.Periods)
	fmt.Fprintf(&buf, "Clients:              %d\n", result.Clients)
	fmt.Fprintf(&buf, "Total Reserve:        %s\n", FormatCurrency(result.TotalValue))
	fmt.Fprintf(&buf, "Average Membership:   %.2f days\n", result.AverageLifetimeDays)
	fmt.Fprintf(&buf, "Lifetime Scale:       %.4f %ss\n", result.Theta, unit)
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "%-8s %18s %8s %18s %8s\n", strings.ToUpper(unit), "Cumulative", "Cum %", "Period Refund", "Per %")
	buf.WriteString(strings.Repeat("-", 72) + "\n")
	for _, period := range result.Cumulative.Periods() {
		fmt.Fprintf(&buf, "%-8d %18s %8s %18s %8s\n",
			period,
			FormatCurrency(money(result.Cumulative[period])),
			FormatPercentage(result.CumulativePercent[period]),
			FormatCurrency(money(result.PerPeriod[period])),
			FormatPercentage(result.PerPeriodPercent[period]))
	}
	buf.WriteString(strings.Repeat("=", 72) + "\n")

	if len(result.ClientRefunds) > 0 {
		fmt.Fprintf(&buf, "Expected yearly refund across %d clients: %s\n", len(result.ClientRefunds), FormatCurrency(result.TotalClientRefunds().Round(2)))
	}
	return buf.Bytes(), nil
}

// ClientsTable renders the per-client expected yearly refunds
func ClientsTable(result *domain.ForecastResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("EXPECTED YEARLY REFUND PER CLIENT\n")
	buf.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&buf, "%-8s %16s %12s %18s\n", "Client", "Cost", "Days", "Expected Refund")
	buf.WriteString(strings.Repeat("-", 60) + "\n")
	for _, c := range result.ClientRefunds {
		fmt.Fprintf(&buf, "%-8d %16s %12d %18s\n", c.Index, FormatCurrency(c.Cost), c.LifetimeDays, FormatCurrency(c.ExpectedRefund.Round(2)))
	}
	buf.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&buf, "%-8s %16s %12s %18s\n", "Total", FormatCurrency(result.TotalValue), "", FormatCurrency(result.TotalClientRefunds().Round(2)))
	return buf.Bytes()
}
