package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
)

// JSONFormatter writes the percentage series of the result's mode as a
// key-sorted JSON object, e.g. {"1": 12, "2": 22, ...}
type JSONFormatter struct {
	Indent int // spaces per level; 0 writes compact JSON
}

func (jf JSONFormatter) Name() string { return "json" }

func (jf JSONFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	return MarshalSeries(result.Percentages(result.Mode), jf.Indent)
}

// MarshalSeries encodes any series with numerically ordered keys
func MarshalSeries(series json.Marshaler, indent int) ([]byte, error) {
	data, err := series.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if indent <= 0 {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Report is the full JSON document written by JSONReportFormatter
type Report struct {
	RunID       uuid.UUID              `json:"runId"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Parameters  ReportParameters       `json:"parameters"`
	Forecast    *domain.ForecastResult `json:"forecast"`
}

// ReportParameters echoes the model inputs derived from the portfolio
type ReportParameters struct {
	Granularity         domain.Granularity `json:"granularity"`
	Periods             int                `json:"periods"`
	Clients             int                `json:"clients"`
	TotalValue          decimal.Decimal    `json:"totalValue"`
	AverageLifetimeDays float64            `json:"averageLifetimeDays"`
	Theta               float64            `json:"theta"`
	Rounding            string             `json:"rounding"`
}

// JSONReportFormatter writes the full forecast with a run id
type JSONReportFormatter struct {
	Pretty bool
	NewID  func() uuid.UUID
}

func (jf JSONReportFormatter) Name() string { return "report" }

func (jf JSONReportFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	newID := jf.NewID
	if newID == nil {
		newID = uuid.New
	}
	report := Report{
		RunID:       newID(),
		GeneratedAt: result.GeneratedAt,
		Parameters: ReportParameters{
			Granularity:         result.Granularity,
			Periods:             result.Periods,
			Clients:             result.Clients,
			TotalValue:          result.TotalValue,
			AverageLifetimeDays: result.AverageLifetimeDays,
			Theta:               result.Theta,
			Rounding:            "half_away_from_zero",
		},
		Forecast: result,
	}

	if jf.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
