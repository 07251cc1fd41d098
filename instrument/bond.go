package instrument

import (
	"fmt"
	"sort"
	"time"

	"github.com/meenmo/mocurve/curve"
)

// CouponBond reprices a dirty price from its remaining cash flows.
type CouponBond struct {
	settlement time.Time
	flows      []CashFlow
	dirtyPrice float64
}

// NewCouponBond takes the cash flows paid after settlement and the dirty
// price in the same units as the amounts.
func NewCouponBond(settlement time.Time, flows []CashFlow, dirtyPrice float64) (*CouponBond, error) {
	const op = "NewCouponBond"

	if len(flows) == 0 {
		return nil, invalid(op, "no cash flows")
	}
	if !finite(dirtyPrice) || dirtyPrice <= 0 {
		return nil, invalid(op, "dirty price must be positive, got %g", dirtyPrice)
	}

	live := make([]CashFlow, 0, len(flows))
	for _, cf := range flows {
		if !finite(cf.Amount) {
			return nil, invalid(op, "invalid amount on %s", ymd(cf.Date))
		}
		if !settlement.IsZero() && !cf.Date.After(settlement) {
			continue
		}
		live = append(live, cf)
	}
	if len(live) == 0 {
		return nil, invalid(op, "no cash flows after settlement %s", ymd(settlement))
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].Date.Before(live[j].Date) })
	if last := live[len(live)-1]; last.Amount <= 0 {
		return nil, invalid(op, "final cash flow on %s must be positive, got %g", ymd(last.Date), last.Amount)
	}

	return &CouponBond{settlement: settlement, flows: live, dirtyPrice: dirtyPrice}, nil
}

func (b *CouponBond) Kind() Kind { return KindBond }

func (b *CouponBond) Maturity() time.Time { return b.flows[len(b.flows)-1].Date }

func (b *CouponBond) DirtyPrice() float64 { return b.dirtyPrice }

// CashFlows returns a copy of the remaining cash flows.
func (b *CouponBond) CashFlows() []CashFlow { return append([]CashFlow(nil), b.flows...) }

// earlierValue discounts every flow but the last.
func (b *CouponBond) earlierValue(ts curve.TermStructure) (float64, error) {
	var pv float64
	for _, cf := range b.flows[:len(b.flows)-1] {
		df, err := discountFactor(ts, cf.Date)
		if err != nil {
			return 0, err
		}
		pv += cf.Amount * df
	}
	return pv, nil
}

// PV = Σ amount·DF − dirty price.
func (b *CouponBond) PV(ts curve.TermStructure) (float64, error) {
	earlier, err := b.earlierValue(ts)
	if err != nil {
		return 0, err
	}
	last := b.flows[len(b.flows)-1]
	df, err := discountFactor(ts, last.Date)
	if err != nil {
		return 0, err
	}
	return earlier + last.Amount*df - b.dirtyPrice, nil
}

// ImpliedDiscountFactor = (dirty + target − value of earlier flows) / final amount.
func (b *CouponBond) ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error) {
	earlier, err := b.earlierValue(ts)
	if err != nil {
		return 0, err
	}
	return (b.dirtyPrice + targetPV - earlier) / b.flows[len(b.flows)-1].Amount, nil
}

func (b *CouponBond) Description() string {
	return fmt.Sprintf("Bond %s (%d flows) @ %.4f", ymd(b.Maturity()), len(b.flows), b.dirtyPrice)
}
