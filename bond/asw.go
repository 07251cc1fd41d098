package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/utils"
)

// ASWInput describes a par-par asset swap on a fixed-rate bond.
type ASWInput struct {
	Settlement time.Time
	DirtyPrice float64
	Notional   float64
	Flows      []instrument.CashFlow

	// FloatMonths and FloatDayCount define the floating leg the spread is
	// quoted over, e.g. 6 and ACT/360 for EURIBOR6M.
	FloatMonths   int
	FloatDayCount string

	Discount curve.TermStructure
}

type ASWResult struct {
	SpreadBP float64
	PVBondRF float64
	PV01     float64
}

// ComputeASWSpread computes the asset swap spread (in bp) using the approximation:
//
//	ASW ≈ (PV_bond^{rf} - P_dirty) / PV01
//
// where PV01 is the PV of receiving 1bp on the floating leg over the swap schedule.
func ComputeASWSpread(in ASWInput) (ASWResult, error) {
	if in.Settlement.IsZero() {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: settlement date is required")
	}
	if in.Notional <= 0 {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: notional must be positive")
	}
	if in.Discount == nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: discount curve is required")
	}
	flows := remainingFlows(in.Settlement, in.Flows)
	if len(flows) == 0 {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: no cash flows after %s", in.Settlement.Format("2006-01-02"))
	}
	dc, err := utils.DayCounter(in.FloatDayCount)
	if err != nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
	}

	pvBondRF, err := presentValue(in.Discount, flows)
	if err != nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
	}

	maturity := flows[len(flows)-1].Date
	payDates, err := instrument.UnadjustedSchedule(in.Settlement, maturity, in.FloatMonths)
	if err != nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: float leg schedule: %w", err)
	}

	pv01 := 0.0
	start := in.Settlement
	for _, pay := range payDates {
		df, err := curve.DiscountFactorAtDate(in.Discount, pay)
		if err != nil {
			return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
		}
		pv01 += in.Notional * dc(start, pay) * 1e-4 * df
		start = pay
	}
	if pv01 == 0 {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: PV01 is zero")
	}

	return ASWResult{
		SpreadBP: (pvBondRF - in.DirtyPrice) / pv01,
		PVBondRF: pvBondRF,
		PV01:     pv01,
	}, nil
}

func presentValue(ts curve.TermStructure, flows []instrument.CashFlow) (float64, error) {
	pv := 0.0
	for _, cf := range flows {
		df, err := curve.DiscountFactorAtDate(ts, cf.Date)
		if err != nil {
			return 0, err
		}
		pv += cf.Amount * df
	}
	return pv, nil
}
