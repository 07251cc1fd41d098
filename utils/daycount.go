package utils

import (
	"fmt"
	"strings"
	"time"
)

// Day-count conventions understood by YearFraction.
const (
	ACT360  = "ACT/360"
	ACT365F = "ACT/365F"
	Thirty  = "30/360"
	ACTACT  = "ACT/ACT"
)

// YearFractionFunc measures the accrual between two dates.
type YearFractionFunc func(start, end time.Time) float64

// YearFraction computes year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360, ACT/ACT (ISDA).
// Unknown conventions fall back to ACT/365F.
func YearFraction(start, end time.Time, convention string) float64 {
	switch normalizeDayCount(convention) {
	case ACT360:
		return Days(start, end) / 360.0
	case Thirty:
		// 30E/360: D1 and D2 are capped at 30
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	case ACTACT:
		return actActISDA(start, end)
	default:
		return Days(start, end) / 365.0
	}
}

// DayCounter returns a YearFractionFunc for convention, or an error for an
// unknown name.
func DayCounter(convention string) (YearFractionFunc, error) {
	dc := normalizeDayCount(convention)
	switch dc {
	case ACT360, ACT365F, Thirty, ACTACT:
	default:
		return nil, fmt.Errorf("DayCounter: unsupported day count %q", convention)
	}
	return func(start, end time.Time) float64 {
		return YearFraction(start, end, dc)
	}, nil
}

func normalizeDayCount(convention string) string {
	switch strings.ToUpper(strings.TrimSpace(convention)) {
	case "ACT/360", "A360":
		return ACT360
	case "ACT/365F", "ACT/365", "A365F", "A365":
		return ACT365F
	case "30E/360", "30/360":
		return Thirty
	case "ACT/ACT", "ACT/ACT ISDA":
		return ACTACT
	}
	return strings.ToUpper(strings.TrimSpace(convention))
}

// actActISDA splits the period at year ends and divides each piece by the
// length of its own year.
func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	var yf float64
	for start.Year() < end.Year() {
		next := time.Date(start.Year()+1, 1, 1, 0, 0, 0, 0, start.Location())
		yf += Days(start, next) / daysInYear(start.Year())
		start = next
	}
	return yf + Days(start, end)/daysInYear(start.Year())
}

func daysInYear(y int) float64 {
	if time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}
