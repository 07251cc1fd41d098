package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/utils"
)

// Future is an interest rate future quoted as 100 minus the rate. It prices
// as a FRA on the convexity-adjusted implied forward.
type Future struct {
	fra       *FRA
	price     float64
	convexity float64
}

// NewFuture takes the quoted price and the convexity adjustment as a
// decimal rate.
func NewFuture(start, end time.Time, price, convexity float64, dc utils.YearFractionFunc, notional float64) (*Future, error) {
	if !finite(price, convexity) || price <= 0 {
		return nil, invalid("NewFuture", "invalid price %g or convexity %g", price, convexity)
	}
	fra, err := NewFRA(start, end, ImpliedFutureRate(price, convexity), dc, notional)
	if err != nil {
		return nil, err
	}
	return &Future{fra: fra, price: price, convexity: convexity}, nil
}

// ImpliedFutureRate = (100 − price)/100 − convexity adjustment.
func ImpliedFutureRate(price, convexity float64) float64 {
	return (100-price)/100 - convexity
}

func (f *Future) Kind() Kind { return KindFuture }

func (f *Future) Maturity() time.Time { return f.fra.end }

func (f *Future) Start() time.Time { return f.fra.start }

func (f *Future) Price() float64 { return f.price }

// ImpliedForward is the convexity-adjusted forward rate.
func (f *Future) ImpliedForward() float64 { return f.fra.rate }

func (f *Future) PV(ts curve.TermStructure) (float64, error) { return f.fra.PV(ts) }

// ImpliedDiscountFactor = DF(start) / (1 + forward·τ) when target is zero.
func (f *Future) ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error) {
	return f.fra.ImpliedDiscountFactor(ts, targetPV)
}

func (f *Future) Description() string {
	return fmt.Sprintf("Future %s-%s @ %.4f", ymd(f.fra.start), ymd(f.fra.end), f.price)
}
