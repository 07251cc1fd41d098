package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/utils"
)

// Deposit is a money-market deposit paying N·(1 + rate·τ) at end for N lent at start.
type Deposit struct {
	start    time.Time
	end      time.Time
	rate     float64
	accrual  float64
	notional float64
}

func NewDeposit(start, end time.Time, rate float64, dc utils.YearFractionFunc, notional float64) (*Deposit, error) {
	const op = "NewDeposit"
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
	return &Deposit{start: start, end: end, rate: rate, accrual: accrual, notional: notional}, nil
}

func (d *Deposit) Kind() Kind { return KindDeposit }

func (d *Deposit) Maturity() time.Time { return d.end }

func (d *Deposit) Rate() float64 { return d.rate }

// PV = N·((1 + rate·τ)·DF(end) − DF(start)).
func (d *Deposit) PV(ts curve.TermStructure) (float64, error) {
	dfs, err := discountFactor(ts, d.start)
	if err != nil {
		return 0, err
	}
	dfe, err := discountFactor(ts, d.end)
	if err != nil {
		return 0, err
	}
	return d.notional * ((1+d.rate*d.accrual)*dfe - dfs), nil
}

// ImpliedDiscountFactor = (DF(start) + target/N) / (1 + rate·τ).
func (d *Deposit) ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error) {
	dfs, err := discountFactor(ts, d.start)
	if err != nil {
		return 0, err
	}
	denom := 1 + d.rate*d.accrual
	if denom <= 0 {
		return 0, mathError("Deposit.ImpliedDiscountFactor", "non-positive denominator %g", denom)
	}
	return (dfs + targetPV/d.notional) / denom, nil
}

func (d *Deposit) Description() string {
	return fmt.Sprintf("Deposit %s-%s @ %.4f%%", ymd(d.start), ymd(d.end), d.rate*100)
}
