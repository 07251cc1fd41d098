package curve

import (
	"fmt"
	"strings"
)

// Compounding is the convention linking a rate to a discount factor.
type Compounding int

const (
	Continuous Compounding = iota
	Simple
	Annual
	SemiAnnual
	Quarterly
	Monthly
	Daily
)

// PeriodsPerYear returns n for periodic conventions and 0 for continuous and simple.
func (c Compounding) PeriodsPerYear() int {
	switch c {
	case Annual:
		return 1
	case SemiAnnual:
		return 2
	case Quarterly:
		return 4
	case Monthly:
		return 12
	case Daily:
		return 365
	}
	return 0
}

// IsPeriodic reports whether c compounds a whole number of times per year.
func (c Compounding) IsPeriodic() bool { return c.PeriodsPerYear() > 0 }

func (c Compounding) String() string {
	switch c {
	case Continuous:
		return "Continuous"
	case Simple:
		return "Simple"
	case Annual:
		return "Annual"
	case SemiAnnual:
		return "SemiAnnual"
	case Quarterly:
		return "Quarterly"
	case Monthly:
		return "Monthly"
	case Daily:
		return "Daily"
	}
	return fmt.Sprintf("Compounding(%d)", int(c))
}

// ParseCompounding accepts the String form of a convention, case-insensitively,
// plus the short aliases "cont", "semi" and "qtr".
func ParseCompounding(s string) (Compounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continuous", "cont":
		return Continuous, nil
	case "simple":
		return Simple, nil
	case "annual":
		return Annual, nil
	case "semiannual", "semi-annual", "semi":
		return SemiAnnual, nil
	case "quarterly", "qtr":
		return Quarterly, nil
	case "monthly":
		return Monthly, nil
	case "daily":
		return Daily, nil
	}
	return Continuous, newError(InvalidData, "ParseCompounding", "unknown compounding %q", s)
}
