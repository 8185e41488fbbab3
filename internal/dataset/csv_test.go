package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `start,end,cost
2022-01-01,2022-05-01,1200
2022-03-01,2022-09-17,600.50
2022/05/15,2022/06/29,300
07/01/2022,07/01/2023,900
`

func TestRead(t *testing.T) {
	portfolio, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 4, portfolio.Len())
	assert.Equal(t, "3000.5", portfolio.TotalValue().String())

	records := portfolio.Records()
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), records[0].SubscriptionStart)
	assert.Equal(t, 120, records[0].LifetimeDays())
	assert.Equal(t, 200, records[1].LifetimeDays())
	assert.Equal(t, 45, records[2].LifetimeDays())
	assert.Equal(t, 365, records[3].LifetimeDays())

	avg, err := portfolio.AverageLifetimeDays()
	require.NoError(t, err)
	assert.InDelta(t, (120.0+200+45+365)/4, avg, 1e-12)
}

func TestRead_HeaderOnly(t *testing.T) {
	portfolio, err := Read(strings.NewReader("start,end,cost\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, portfolio.Len())
}

func TestRead_SkipsBlankRows(t *testing.T) {
	portfolio, err := Read(strings.NewReader("start,end,cost\n2022-01-01,2022-01-31,10\n,,\n2022-02-01,2022-02-11,20\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, portfolio.Len())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"wrong header width", "start,end\n2022-01-01,2022-02-01\n", 1, "expected 3 columns"},
		{"wrong row width", "a,b,c\n2022-01-01,2022-02-01,10,extra\n", 2, "expected 3 columns"},
		{"bad start", "a,b,c\nyesterday,2022-02-01,10\n", 2, "subscription start"},
		{"bad end", "a,b,c\n2022-01-01,soon,10\n", 2, "subscription end"},
		{"bad cost", "a,b,c\n2022-01-01,2022-02-01,ten\n", 2, "cost"},
		{"negative cost", "a,b,c\n2022-01-01,2022-02-01,-10\n", 2, "cannot be negative"},
		{"end before start", "a,b,c\n2022-01-01,2022-02-01,5\n2022-03-01,2022-02-01,10\n", 3, "end before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr), "expected RowError, got %v", err)
			assert.Equal(t, tt.line, rowErr.Line)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRead_EndBeforeStartIsInvalidPeriod(t *testing.T) {
	_, err := Read(strings.NewReader("a,b,c\n2022-03-01,2022-02-01,10\n"))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	portfolio, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, portfolio.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2021-03-04", "2021/03/04", "03/04/2021", "3/4/2021", " 2021-03-04 "} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}

	_, err := ParseDate("4th of March")
	assert.Error(t, err)
}
