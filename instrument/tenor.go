package instrument

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/mocurve/utils"
)

// Tenor is a market period such as "1W", "3M" or "10Y".
type Tenor struct {
	Count int
	Unit  byte // 'D', 'W', 'M' or 'Y'
}

// ParseTenor converts tenor strings like "1W", "3M", "10Y" or "45D".
func ParseTenor(s string) (Tenor, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Tenor{}, invalid("ParseTenor", "invalid tenor %q", s)
	}
	unit := s[len(s)-1]
	switch unit {
	case 'D', 'W', 'M', 'Y':
	default:
		return Tenor{}, invalid("ParseTenor", "unknown tenor unit in %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return Tenor{}, invalid("ParseTenor", "invalid tenor count in %q", s)
	}
	return Tenor{Count: n, Unit: unit}, nil
}

// Months returns the tenor length in months for M and Y tenors.
func (t Tenor) Months() int {
	switch t.Unit {
	case 'M':
		return t.Count
	case 'Y':
		return 12 * t.Count
	}
	return 0
}

// AddTo moves date by the tenor without business-day adjustment.
func (t Tenor) AddTo(date time.Time) time.Time {
	switch t.Unit {
	case 'D':
		return date.AddDate(0, 0, t.Count)
	case 'W':
		return date.AddDate(0, 0, 7*t.Count)
	}
	return utils.AddMonth(date, t.Months())
}

// Years approximates the tenor as a year fraction.
func (t Tenor) Years() float64 {
	switch t.Unit {
	case 'D':
		return float64(t.Count) / 365.0
	case 'W':
		return float64(t.Count) * 7.0 / 365.0
	case 'M':
		return float64(t.Count) / 12.0
	}
	return float64(t.Count)
}

func (t Tenor) String() string { return fmt.Sprintf("%d%c", t.Count, t.Unit) }
