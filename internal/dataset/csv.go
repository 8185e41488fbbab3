package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Columns is the fixed column count of the client dataset:
// subscription start, subscription end, cost.
const Columns = 3

// DateLayouts are tried in order when parsing the two date columns
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// RowError reports a malformed dataset row
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ErrInvalidPeriod is returned when a subscription ends before it starts
var ErrInvalidPeriod = errors.New("invalid period: end before start")

// Load reads a client dataset from a CSV file
func Load(path string) (domain.Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	portfolio, err := Read(f)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return portfolio, nil
}

// Read parses a client dataset. The first row is a header and is skipped.
func Read(r io.Reader) (domain.Portfolio, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []domain.ClientRecord
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Portfolio{}, err
		}
		line, _ := reader.FieldPos(0)
		if header {
			header = false
			if len(row) != Columns {
				return domain.Portfolio{}, &RowError{Line: line, Err: fmt.Errorf("expected %d columns, got %d", Columns, len(row))}
			}
			continue
		}
		if isBlank(row) {
			continue
		}

		rec, err := ParseRecord(row)
		if err != nil {
			return domain.Portfolio{}, &RowError{Line: line, Err: err}
		}
		records = append(records, rec)
	}
	return domain.NewPortfolio(records), nil
}

// ParseRecord converts one start, end, cost triple into a client record
func ParseRecord(row []string) (domain.ClientRecord, error) {
	if len(row) != Columns {
		return domain.ClientRecord{}, fmt.Errorf("expected %d columns, got %d", Columns, len(row))
	}

	start, err := ParseDate(row[0])
	if err != nil {
		return domain.ClientRecord{}, fmt.Errorf("subscription start: %w", err)
	}
	end, err := ParseDate(row[1])
	if err != nil {
		return domain.ClientRecord{}, fmt.Errorf("subscription end: %w", err)
	}
	if end.Before(start) {
		return domain.ClientRecord{}, fmt.Errorf("%s before %s: %w", row[1], row[0], ErrInvalidPeriod)
	}

	cost, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return domain.ClientRecord{}, fmt.Errorf("cost %q: %w", row[2], err)
	}
	if cost.IsNegative() {
		return domain.ClientRecord{}, fmt.Errorf("cost %s cannot be negative", cost.String())
	}

	return domain.NewClientRecord(start, end, cost), nil
}

// ParseDate parses a calendar date using the first matching layout
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
