package instrument

import (
	"time"

	"github.com/meenmo/mocurve/utils"
)

// maxScheduleDates bounds schedule generation (50Y monthly).
const maxScheduleDates = 600

// UnadjustedSchedule returns payment dates rolled back from end every months
// months, ending with end. Dates on or before start are dropped, so the
// first period may be short. No calendar is applied.
func UnadjustedSchedule(start, end time.Time, months int) ([]time.Time, error) {
	const op = "UnadjustedSchedule"
	if months <= 0 {
		return nil, invalid(op, "payment frequency must be a positive number of months, got %d", months)
	}
	if !end.After(start) {
		return nil, invalid(op, "end %s is not after start %s", ymd(end), ymd(start))
	}

	var rev []time.Time
	for k := 0; ; k++ {
		d := utils.AddMonth(end, -k*months)
		if !d.After(start) {
			break
		}
		if k >= maxScheduleDates {
			return nil, invalid(op, "more than %d payment dates", maxScheduleDates)
		}
		rev = append(rev, d)
	}

	dates := make([]time.Time, len(rev))
	for i, d := range rev {
		dates[len(rev)-1-i] = d
	}
	return dates, nil
}
