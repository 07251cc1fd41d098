package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthEndOfMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 3, 31), -1, date(2025, 2, 28)},
		{date(2025, 1, 15), 6, date(2025, 7, 15)},
		{date(2025, 8, 31), 3, date(2025, 11, 30)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AddMonth(tc.in, tc.months), "%s %+d", tc.in.Format("2006-01-02"), tc.months)
	}
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start, end := date(2025, 1, 15), date(2025, 7, 15)
	assert.InDelta(t, 181.0/360, YearFraction(start, end, ACT360), 1e-15)
	assert.InDelta(t, 181.0/365, YearFraction(start, end, ACT365F), 1e-15)
	assert.InDelta(t, 0.5, YearFraction(start, end, "30E/360"), 1e-15)
	assert.InDelta(t, 181.0/365, YearFraction(start, end, "unknown"), 1e-15)

	// ACT/ACT splits across the leap year boundary
	yf := YearFraction(date(2023, 7, 1), date(2024, 7, 1), ACTACT)
	assert.InDelta(t, 184.0/365+182.0/366, yf, 1e-15)
}

func TestDayCounter(t *testing.T) {
	t.Parallel()

	f, err := DayCounter("act/360")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f(date(2025, 1, 1), date(2025, 1, 1).AddDate(0, 0, 360)), 1e-15)

	_, err = DayCounter("BUS/252")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2025-03-20")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 20), d)
	assert.Equal(t, "2025-03-20", FormatDate(d))

	_, err = ParseDate("20/03/2025")
	assert.Error(t, err)

	assert.Equal(t, 1.2346, RoundTo(1.23456, 4))
}
