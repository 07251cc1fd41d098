package main

import (
	"fmt"

	"github.com/meenmo/mocurve/bond"
	"github.com/meenmo/mocurve/solver"
	"github.com/meenmo/mocurve/utils"
)

func priceBond(bc *builtCurve, b bondCase, sc solver.Config) (aswRow, error) {
	settlement, err := resolveDate(bc.ref, b.Settlement)
	if err != nil {
		return aswRow{}, fmt.Errorf("settlement: %w", err)
	}
	flows, err := parseCashflows(b.Cashflows)
	if err != nil {
		return aswRow{}, err
	}
	if len(flows) == 0 {
		return aswRow{}, fmt.Errorf("no cashflows")
	}
	dirty := b.DirtyPrice.InexactFloat64()

	freq := b.Frequency
	if freq == 0 {
		freq = 1
	}
	y, err := bond.YieldFromPrice(bond.YieldInput{
		Settlement: settlement,
		DirtyPrice: dirty,
		Frequency:  freq,
		Flows:      flows,
	}, sc)
	if err != nil {
		return aswRow{}, err
	}

	z, err := bond.ZSpread(settlement, dirty, flows, bc.curve, sc)
	if err != nil {
		return aswRow{}, err
	}

	floatMonths := b.FloatMonths
	if floatMonths == 0 {
		floatMonths = 6
	}
	floatDC := b.FloatDayCount
	if floatDC == "" {
		floatDC = utils.ACT360
	}
	asw, err := bond.ComputeASWSpread(bond.ASWInput{
		Settlement:    settlement,
		DirtyPrice:    dirty,
		Notional:      valueOr(b.Notional, 100),
		Flows:         flows,
		FloatMonths:   floatMonths,
		FloatDayCount: floatDC,
		Discount:      bc.curve,
	})
	if err != nil {
		return aswRow{}, err
	}

	return aswRow{
		ISIN:        b.ISIN,
		Settlement:  utils.FormatDate(settlement),
		Maturity:    utils.FormatDate(flows[len(flows)-1].Date),
		DirtyPrice:  dirty,
		Yield:       round(y.Yield),
		ZSpreadBP:   utils.RoundTo(z*1e4, 6),
		PVRiskFree:  round(asw.PVBondRF),
		PV01BP:      round(asw.PV01),
		ASWSpreadBP: utils.RoundTo(asw.SpreadBP, 6),
	}, nil
}
