package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/refundcast/internal/domain"
)

// Chart colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorBar     = lipgloss.Color("#04B575")
	ColorMuted   = lipgloss.Color("#777777")
)

// BarChart draws one horizontal bar per period
type BarChart struct {
	Title      string
	Labels     []string
	Values     []int
	Width      int // columns available for the longest bar
	Max        int // value drawn at full width; 0 uses the largest value
	XAxisLabel string
}

// NewBarChart creates an empty chart
func NewBarChart(title string) *BarChart {
	return &BarChart{
		Title: title,
		Width: 50,
	}
}

// WithSeries loads a percentage series, keeping at most maxRows evenly spaced
// periods (the last period is always shown). maxRows <= 0 keeps every period.
func (c *BarChart) WithSeries(series domain.PercentageSeries, unit string, maxRows int) *BarChart {
	periods := SamplePeriods(series.Periods(), maxRows)
	c.Labels = make([]string, len(periods))
	c.Values = make([]int, len(periods))
	for i, p := range periods {
		c.Labels[i] = fmt.Sprintf("%s %d", unit, p)
		c.Values[i] = series[p]
	}
	return c
}

// WithWidth sets the bar width
func (c *BarChart) WithWidth(width int) *BarChart {
	c.Width = width
	return c
}

// WithMax fixes the value drawn at full width
func (c *BarChart) WithMax(top int) *BarChart {
	c.Max = top
	return c
}

// WithAxisLabel sets the caption printed under the bars
func (c *BarChart) WithAxisLabel(label string) *BarChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	if len(c.Values) == 0 {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
		content.WriteString(titleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	labelWidth := 0
	for _, l := range c.Labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}
	labelStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(labelWidth).
		Align(lipgloss.Right)
	barStyle := lipgloss.NewStyle().Foreground(ColorBar)

	top := c.scaleMax()
	for i, v := range c.Values {
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		content.WriteString(labelStyle.Render(label))
		content.WriteString(" │ ")
		content.WriteString(barStyle.Render(strings.Repeat("█", barLength(v, top, c.Width))))
		content.WriteString(" ")
		content.WriteString(strconv.Itoa(v))
		content.WriteString("%\n")
	}

	if c.XAxisLabel != "" {
		axisStyle := lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
		content.WriteString(strings.Repeat(" ", labelWidth+3))
		content.WriteString(axisStyle.Render(c.XAxisLabel))
		content.WriteString("\n")
	}
	return content.String()
}

func (c *BarChart) scaleMax() int {
	if c.Max > 0 {
		return c.Max
	}
	top := 1
	for _, v := range c.Values {
		if v > top {
			top = v
		}
	}
	return top
}

func barLength(v, top, width int) int {
	if v <= 0 || width <= 0 {
		return 0
	}
	n := v * width / top
	if n > width {
		n = width
	}
	if n == 0 {
		n = 1
	}
	return n
}

// SamplePeriods picks at most maxRows evenly spaced periods, always ending on the last one
func SamplePeriods(periods []int, maxRows int) []int {
	if maxRows <= 0 || len(periods) <= maxRows {
		return periods
	}
	step := (len(periods) + maxRows - 1) / maxRows
	var out []int
	for i := step - 1; i < len(periods); i += step {
		out = append(out, periods[i])
	}
	if out[len(out)-1] != periods[len(periods)-1] {
		out = append(out, periods[len(periods)-1])
	}
	return out
}

// ReserveCharts renders the two charts of a forecast: per-period and cumulative
func ReserveCharts(result *domain.ForecastResult, maxRows, width int) string {
	unit := result.Granularity.Unit()
	perPeriod := NewBarChart("Percentage Total Reserve to Keep").
		WithSeries(result.PerPeriodPercent, unit, maxRows).
		WithWidth(width).
		WithAxisLabel("Reserve percentage per " + unit)
	cumulative := NewBarChart("Cumulative Percentage Total Reserve to Keep").
		WithSeries(result.CumulativePercent, unit, maxRows).
		WithWidth(width).
		WithMax(100).
		WithAxisLabel("Cumulative reserve percentage")
	return perPeriod.Render() + "\n" + cumulative.Render()
}
