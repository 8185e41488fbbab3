package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a forecast result into bytes
type Formatter interface {
	Name() string
	Format(result *domain.ForecastResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *domain.ForecastResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.ForecastResult) ([]byte, error) {
	return f.F(result)
}

var formatters = map[string]Formatter{
	"json":    JSONFormatter{Indent: 4},
	"report":  JSONReportFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"console": ConsoleFormatter{},
}

var formatAliases = map[string]string{
	"table": "console",
	"text":  "console",
	"full":  "report",
}

// GetFormatterByName returns the formatter registered under name or alias, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[name]; ok {
		name = canonical
	}
	return formatters[name]
}

// AvailableFormatterNames lists the canonical formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(formatAliases))
	for name := range formatAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats the result and writes it to path
func WriteFormatted(f Formatter, result *domain.ForecastResult, path string) error {
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a whole percentage
func FormatPercentage(p int) string {
	return fmt.Sprintf("%d%%", p)
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
