package instrument

import "time"

// MinorUnitFlow mirrors cash-flow feeds that store coupon and principal as
// integer minor units.
type MinorUnitFlow struct {
	Date      time.Time
	Coupon    int64
	Principal int64
}

// ToCashFlow divides the amounts by scale (100 for cents, 10000 for per-100
// prices quoted in basis points of a unit).
func (m MinorUnitFlow) ToCashFlow(scale float64) CashFlow {
	kind := FlowCoupon
	switch {
	case m.Principal != 0 && m.Coupon != 0:
		kind = FlowCouponAndPrincipal
	case m.Principal != 0:
		kind = FlowPrincipal
	}
	return CashFlow{
		Date:   m.Date,
		Amount: float64(m.Coupon+m.Principal) / scale,
		Kind:   kind,
	}
}

func ToCashFlows(in []MinorUnitFlow, scale float64) []CashFlow {
	out := make([]CashFlow, 0, len(in))
	for _, m := range in {
		out = append(out, m.ToCashFlow(scale))
	}
	return out
}
