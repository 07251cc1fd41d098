package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/utils"
)

// FixedPeriod is one fixed-leg payment: its date and accrual fraction.
type FixedPeriod struct {
	PayDate time.Time
	Accrual float64
}

// Swap is a par fixed-for-floating swap valued as receive fixed. The
// floating leg telescopes to N·(DF(T0) − DF(Tn)) on a single curve.
type Swap struct {
	effective time.Time
	periods   []FixedPeriod
	rate      float64
	notional  float64
}

// NewSwap builds a swap from an already generated fixed-leg schedule.
func NewSwap(effective time.Time, periods []FixedPeriod, rate, notional float64) (*Swap, error) {
	const op = "NewSwap"

	if len(periods) == 0 {
		return nil, invalid(op, "no fixed periods")
	}
	if !finite(rate, notional) || notional <= 0 {
		return nil, invalid(op, "invalid rate %g or notional %g", rate, notional)
	}
	prev := effective
	for i, p := range periods {
		if !p.PayDate.After(prev) {
			return nil, invalid(op, "period %d pays on %s, not after %s", i, ymd(p.PayDate), ymd(prev))
		}
		if !finite(p.Accrual) || p.Accrual <= 0 {
			return nil, invalid(op, "period %d has accrual %g", i, p.Accrual)
		}
		prev = p.PayDate
	}
	return &Swap{
		effective: effective,
		periods:   append([]FixedPeriod(nil), periods...),
		rate:      rate,
		notional:  notional,
	}, nil
}

// NewSwapFromSchedule rolls an unadjusted fixed schedule every months
// months back from maturity and accrues it with dc.
func NewSwapFromSchedule(effective, maturity time.Time, months int, rate float64, dc utils.YearFractionFunc, notional float64) (*Swap, error) {
	dates, err := UnadjustedSchedule(effective, maturity, months)
	if err != nil {
		return nil, err
	}
	periods := make([]FixedPeriod, len(dates))
	prev := effective
	for i, d := range dates {
		periods[i] = FixedPeriod{PayDate: d, Accrual: dc(prev, d)}
		prev = d
	}
	return NewSwap(effective, periods, rate, notional)
}

func (s *Swap) Kind() Kind { return KindSwap }

func (s *Swap) Maturity() time.Time { return s.periods[len(s.periods)-1].PayDate }

func (s *Swap) Rate() float64 { return s.rate }

func (s *Swap) Effective() time.Time { return s.effective }

// annuity sums τ·DF over the first n periods.
func (s *Swap) annuity(ts curve.TermStructure, n int) (float64, error) {
	var a float64
	for _, p := range s.periods[:n] {
		df, err := discountFactor(ts, p.PayDate)
		if err != nil {
			return 0, err
		}
		a += p.Accrual * df
	}
	return a, nil
}

// Annuity is the fixed-leg value of a unit rate on unit notional.
func (s *Swap) Annuity(ts curve.TermStructure) (float64, error) {
	return s.annuity(ts, len(s.periods))
}

// ParRate is the fixed rate that sets the swap value to zero on ts.
func (s *Swap) ParRate(ts curve.TermStructure) (float64, error) {
	a, err := s.Annuity(ts)
	if err != nil {
		return 0, err
	}
	if a == 0 {
		return 0, mathError("Swap.ParRate", "zero annuity")
	}
	df0, err := discountFactor(ts, s.effective)
	if err != nil {
		return 0, err
	}
	dfn, err := discountFactor(ts, s.Maturity())
	if err != nil {
		return 0, err
	}
	return (df0 - dfn) / a, nil
}

// PV = N·(rate·annuity − (DF(T0) − DF(Tn))).
func (s *Swap) PV(ts curve.TermStructure) (float64, error) {
	a, err := s.Annuity(ts)
	if err != nil {
		return 0, err
	}
	df0, err := discountFactor(ts, s.effective)
	if err != nil {
		return 0, err
	}
	dfn, err := discountFactor(ts, s.Maturity())
	if err != nil {
		return 0, err
	}
	return s.notional * (s.rate*a - (df0 - dfn)), nil
}

// ImpliedDiscountFactor solves the par condition for DF(Tn):
//
//	DF(Tn) = (target/N + DF(T0) − rate·Σ_{i<n} τ_i·DF_i) / (1 + rate·τ_n)
func (s *Swap) ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error) {
	n := len(s.periods)
	partial, err := s.annuity(ts, n-1)
	if err != nil {
		return 0, err
	}
	df0, err := discountFactor(ts, s.effective)
	if err != nil {
		return 0, err
	}
	denom := 1 + s.rate*s.periods[n-1].Accrual
	if denom <= 0 {
		return 0, mathError("Swap.ImpliedDiscountFactor", "non-positive denominator %g", denom)
	}
	return (targetPV/s.notional + df0 - s.rate*partial) / denom, nil
}

func (s *Swap) Description() string {
	return fmt.Sprintf("Swap %s-%s @ %.4f%%", ymd(s.effective), ymd(s.Maturity()), s.rate*100)
}
