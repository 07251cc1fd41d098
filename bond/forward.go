package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/solver"
)

// ForwardYieldInput holds the parameters needed to compute the forward yield
// of a bond delivered via a futures contract.
type ForwardYieldInput struct {
	// SettlementDate is the futures delivery date.
	SettlementDate time.Time
	// FuturesPrice is the clean futures price (e.g. 128.20).
	FuturesPrice float64
	// ConversionFactor maps the futures price to the CTD bond's invoice price.
	ConversionFactor float64
	// CouponRate is the annual coupon in percent (e.g. 2.5 for 2.5%).
	CouponRate float64
	// CouponFrequency is coupons per year (1 = annual, 2 = semi-annual).
	CouponFrequency int
	// Cashflows are the remaining cash flows after settlement, per 100.
	Cashflows []instrument.CashFlow
}

// ForwardYieldResult is the output of ComputeForwardYield.
type ForwardYieldResult struct {
	// ForwardYield is the annualised yield in percent (e.g. 2.83).
	ForwardYield float64
	// InvoicePrice is futures_price × conversion_factor + accrued_interest (per-100).
	InvoicePrice float64
	// AccruedInterest is the accrued coupon at settlement (per-100).
	AccruedInterest float64
	Iterations      int
}

// ComputeForwardYield solves for the yield at which the ACT/ACT ICMA dirty
// price equals the invoice price of the futures delivery.
func ComputeForwardYield(in ForwardYieldInput, cfg solver.Config) (ForwardYieldResult, error) {
	if in.SettlementDate.IsZero() {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: SettlementDate is required")
	}
	flows := remainingFlows(in.SettlementDate, in.Cashflows)
	if len(flows) == 0 {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: Cashflows are required")
	}
	if in.CouponFrequency <= 0 || 12%in.CouponFrequency != 0 {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: unsupported CouponFrequency %d", in.CouponFrequency)
	}

	prevCoupon := flows[0].Date.AddDate(0, -12/in.CouponFrequency, 0)

	// Accrued interest: period coupon × (days from last coupon to settlement) / (days in period).
	daysAccrued := daysBetween(prevCoupon, in.SettlementDate)
	daysPeriod := daysBetween(prevCoupon, flows[0].Date)
	accruedInterest := in.CouponRate / float64(in.CouponFrequency) * float64(daysAccrued) / float64(daysPeriod)

	invoicePrice := in.FuturesPrice*in.ConversionFactor + accruedInterest

	res, err := YieldFromPrice(YieldInput{
		Settlement: in.SettlementDate,
		DirtyPrice: invoicePrice,
		Frequency:  in.CouponFrequency,
		Flows:      flows,
	}, cfg)
	if err != nil {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: %w", err)
	}

	return ForwardYieldResult{
		ForwardYield:    res.Yield * 100.0, // decimal → percent
		InvoicePrice:    invoicePrice,
		AccruedInterest: accruedInterest,
		Iterations:      res.Iterations,
	}, nil
}
