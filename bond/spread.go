package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/solver"
	"github.com/meenmo/mocurve/utils"
)

// Bracket for spread searches, as continuous rates.
const (
	spreadFloor   = -0.5
	spreadCeiling = 0.5
)

// ZSpread returns the constant continuously compounded spread over discount
// that reprices flows to dirtyPrice.
func ZSpread(settlement time.Time, dirtyPrice float64, flows []instrument.CashFlow, discount curve.TermStructure, cfg solver.Config) (float64, error) {
	if discount == nil {
		return math.NaN(), fmt.Errorf("ZSpread: discount curve is required")
	}
	remaining := remainingFlows(settlement, flows)
	if len(remaining) == 0 {
		return math.NaN(), fmt.Errorf("ZSpread: no cash flows after %s", settlement.Format("2006-01-02"))
	}
	// Evaluate once so that curve errors surface instead of a bracket failure.
	if _, err := presentValue(discount, remaining); err != nil {
		return math.NaN(), fmt.Errorf("ZSpread: %w", err)
	}

	f := func(s float64) float64 {
		shifted, err := curve.NewConstantSpreadCurve(discount, s, curve.Additive)
		if err != nil {
			return math.NaN()
		}
		pv, err := presentValue(shifted, remaining)
		if err != nil {
			return math.NaN()
		}
		return pv - dirtyPrice
	}
	res, err := solver.Brent(f, spreadFloor, spreadCeiling, cfg)
	if err != nil {
		return math.NaN(), fmt.Errorf("ZSpread: %w", curve.FromSolver("ZSpread", err))
	}
	return res.Root, nil
}

// FloatPeriod is one coupon period of a floating rate note.
type FloatPeriod struct {
	Start time.Time
	End   time.Time
	Pay   time.Time
}

// FloatingNote is a floating rate note paying forward + QuotedMargin.
type FloatingNote struct {
	Periods      []FloatPeriod
	QuotedMargin float64
	Notional     float64
	DayCount     utils.YearFractionFunc
}

// FloatingPeriods builds back-rolled periods from start to maturity paying
// on each period end.
func FloatingPeriods(start, maturity time.Time, months int) ([]FloatPeriod, error) {
	dates, err := instrument.UnadjustedSchedule(start, maturity, months)
	if err != nil {
		return nil, err
	}
	out := make([]FloatPeriod, len(dates))
	prev := start
	for i, d := range dates {
		out[i] = FloatPeriod{Start: prev, End: d, Pay: d}
		prev = d
	}
	return out, nil
}

// DiscountMargin returns the constant spread over discount at which the
// note, with coupons projected from forward, is worth dirtyPrice. Periods
// paying on or before settlement are ignored.
func DiscountMargin(settlement time.Time, note FloatingNote, dirtyPrice float64, forward, discount curve.TermStructure, cfg solver.Config) (float64, error) {
	if forward == nil || discount == nil {
		return math.NaN(), fmt.Errorf("DiscountMargin: forward and discount curves are required")
	}
	if note.Notional <= 0 || note.DayCount == nil {
		return math.NaN(), fmt.Errorf("DiscountMargin: notional and day count are required")
	}

	var flows []instrument.CashFlow
	for _, p := range note.Periods {
		if !p.Pay.After(settlement) {
			continue
		}
		fwd, err := curve.ForwardRateBetween(forward, p.Start, p.End, curve.Simple)
		if err != nil {
			return math.NaN(), fmt.Errorf("DiscountMargin: %w", err)
		}
		coupon := note.Notional * (fwd + note.QuotedMargin) * note.DayCount(p.Start, p.End)
		flows = append(flows, instrument.CashFlow{Date: p.Pay, Amount: coupon, Kind: instrument.FlowCoupon})
	}
	if len(flows) == 0 {
		return math.NaN(), fmt.Errorf("DiscountMargin: no coupon periods after %s", settlement.Format("2006-01-02"))
	}
	last := &flows[len(flows)-1]
	last.Amount += note.Notional
	last.Kind = instrument.FlowCouponAndPrincipal

	dm, err := ZSpread(settlement, dirtyPrice, flows, discount, cfg)
	if err != nil {
		return math.NaN(), fmt.Errorf("DiscountMargin: %w", err)
	}
	return dm, nil
}
