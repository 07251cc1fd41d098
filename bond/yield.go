// Package bond solves yields and spreads of fixed and floating rate bonds
// against term structures.
package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/solver"
)

const (
	yieldGuess   = 0.025
	yieldFloor   = -0.05
	yieldCeiling = 0.50
)

// YieldInput describes a fixed-rate bond price to be converted into a yield.
type YieldInput struct {
	Settlement time.Time
	// DirtyPrice is in the same units as the flow amounts.
	DirtyPrice float64
	// Frequency is coupons per year (1 = annual, 2 = semi-annual).
	Frequency int
	// Flows are the remaining cash flows, coupon and principal.
	Flows []instrument.CashFlow
}

// YieldResult is the output of YieldFromPrice.
type YieldResult struct {
	// Yield is periodically compounded at the coupon frequency, as a decimal.
	Yield      float64
	Iterations int
	// Solver names the root finder that produced Yield.
	Solver string
}

// YieldFromPrice solves for y such that the ACT/ACT ICMA dirty price equals
// in.DirtyPrice. Newton with the analytic derivative runs first; Brent over
// [-5%, 50%] takes over if Newton fails or leaves that range.
func YieldFromPrice(in YieldInput, cfg solver.Config) (YieldResult, error) {
	flows, prevCoupon, err := prepareFlows(in)
	if err != nil {
		return YieldResult{}, err
	}

	price := func(y float64) float64 {
		p, _ := DirtyPriceAndDerivative(y, in.Frequency, in.Settlement, prevCoupon, flows)
		return p - in.DirtyPrice
	}
	deriv := func(y float64) float64 {
		_, d := DirtyPriceAndDerivative(y, in.Frequency, in.Settlement, prevCoupon, flows)
		return d
	}

	res, err := solver.NewtonRaphson(price, deriv, yieldGuess, cfg)
	if err == nil && res.Root >= yieldFloor && res.Root <= yieldCeiling {
		return YieldResult{Yield: res.Root, Iterations: res.Iterations, Solver: "newton"}, nil
	}
	res, err = solver.Brent(price, yieldFloor, yieldCeiling, cfg)
	if err != nil {
		return YieldResult{}, fmt.Errorf("YieldFromPrice: %w", curve.FromSolver("YieldFromPrice", err))
	}
	return YieldResult{Yield: res.Root, Iterations: res.Iterations, Solver: "brent"}, nil
}

// PriceFromYield is the dirty price of in.Flows at yield y.
func PriceFromYield(y float64, in YieldInput) (float64, error) {
	flows, prevCoupon, err := prepareFlows(in)
	if err != nil {
		return 0, err
	}
	p, _ := DirtyPriceAndDerivative(y, in.Frequency, in.Settlement, prevCoupon, flows)
	return p, nil
}

func prepareFlows(in YieldInput) ([]instrument.CashFlow, time.Time, error) {
	if in.Settlement.IsZero() {
		return nil, time.Time{}, fmt.Errorf("YieldFromPrice: settlement date is required")
	}
	if in.Frequency <= 0 || 12%in.Frequency != 0 {
		return nil, time.Time{}, fmt.Errorf("YieldFromPrice: unsupported coupon frequency %d", in.Frequency)
	}
	flows := remainingFlows(in.Settlement, in.Flows)
	if len(flows) == 0 {
		return nil, time.Time{}, fmt.Errorf("YieldFromPrice: no cash flows after %s", in.Settlement.Format("2006-01-02"))
	}
	// Previous coupon date: first remaining flow minus one coupon period.
	prevCoupon := flows[0].Date.AddDate(0, -12/in.Frequency, 0)
	return flows, prevCoupon, nil
}

// DirtyPriceAndDerivative returns (price, dPrice/dy) using ACT/ACT ICMA
// period counting:
//
//	t_1   = days(settlement, cf[0]) / days(prevCoupon, cf[0])
//	t_k   = t_1 + (k − 1)
//	price = Σ CF_k / (1+y/f)^t_k
//	dP/dy = Σ −(t_k/f) · CF_k / (1+y/f)^(t_k+1)
func DirtyPriceAndDerivative(y float64, freq int, settlement, prevCoupon time.Time, cfs []instrument.CashFlow) (float64, float64) {
	if len(cfs) == 0 {
		return 0, 0
	}
	f := float64(freq)
	base := 1 + y/f
	t1 := float64(daysBetween(settlement, cfs[0].Date)) / float64(daysBetween(prevCoupon, cfs[0].Date))

	var price, deriv float64
	for i, cf := range cfs {
		t := t1 + float64(i)
		price += cf.Amount / math.Pow(base, t)
		deriv += -(t / f) * cf.Amount / math.Pow(base, t+1)
	}
	return price, deriv
}

// remainingFlows drops flows on or before settlement. The input is assumed
// to be in date order.
func remainingFlows(settlement time.Time, flows []instrument.CashFlow) []instrument.CashFlow {
	out := make([]instrument.CashFlow, 0, len(flows))
	for _, cf := range flows {
		if cf.Date.After(settlement) {
			out = append(out, cf)
		}
	}
	return out
}

// daysBetween returns the number of calendar days from start to end (ACT).
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
