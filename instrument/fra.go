package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/utils"
)

// FRA is a forward rate agreement on a simple rate over [start, end].
type FRA struct {
	start    time.Time
	end      time.Time
	rate     float64
	accrual  float64
	notional float64
}

// NewFRA accrues the period with dc.
func NewFRA(start, end time.Time, rate float64, dc utils.YearFractionFunc, notional float64) (*FRA, error) {
	const op = "NewFRA"
	if !end.After(start) {
		return nil, invalid(op, "end %s is not after start %s", ymd(end), ymd(start))
	}
	if !finite(rate, notional) || notional <= 0 {
		return nil, invalid(op, "invalid rate %g or notional %g", rate, notional)
	}
	accrual := dc(start, end)
	if !(accrual > 0) {
		return nil, invalid(op, "non-positive accrual %g", accrual)
	}
	return &FRA{start: start, end: end, rate: rate, accrual: accrual, notional: notional}, nil
}

func (f *FRA) Kind() Kind { return KindFRA }

func (f *FRA) Maturity() time.Time { return f.end }

func (f *FRA) Start() time.Time { return f.start }

func (f *FRA) Rate() float64 { return f.rate }

// ForwardRate is the simple forward rate implied by ts over the FRA period.
func (f *FRA) ForwardRate(ts curve.TermStructure) (float64, error) {
	dfs, err := discountFactor(ts, f.start)
	if err != nil {
		return 0, err
	}
	dfe, err := discountFactor(ts, f.end)
	if err != nil {
		return 0, err
	}
	if dfe == 0 {
		return 0, mathError("FRA.ForwardRate", "zero discount factor at %s", ymd(f.end))
	}
	return (dfs/dfe - 1) / f.accrual, nil
}

// PV = N·(curve forward − rate)·τ·DF(end) = N·(DF(start) − DF(end)·(1 + rate·τ)).
func (f *FRA) PV(ts curve.TermStructure) (float64, error) {
	dfs, err := discountFactor(ts, f.start)
	if err != nil {
		return 0, err
	}
	dfe, err := discountFactor(ts, f.end)
	if err != nil {
		return 0, err
	}
	return f.notional * (dfs - dfe*(1+f.rate*f.accrual)), nil
}

// ImpliedDiscountFactor = (DF(start) − target/N) / (1 + rate·τ).
func (f *FRA) ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error) {
	dfs, err := discountFactor(ts, f.start)
	if err != nil {
		return 0, err
	}
	denom := 1 + f.rate*f.accrual
	if denom <= 0 {
		return 0, mathError("FRA.ImpliedDiscountFactor", "non-positive denominator %g", denom)
	}
	return (dfs - targetPV/f.notional) / denom, nil
}

func (f *FRA) Description() string {
	return fmt.Sprintf("FRA %s-%s @ %.4f%%", ymd(f.start), ymd(f.end), f.rate*100)
}
