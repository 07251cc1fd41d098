// Package instrument defines the market instruments a discount curve is
// calibrated to. Each instrument reprices itself against a trial curve and
// inverts its own pricing formula for the discount factor at its pillar.
package instrument

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mocurve/curve"
)

// Kind identifies an instrument family.
type Kind int

const (
	KindDeposit Kind = iota
	KindFRA
	KindFuture
	KindSwap
	KindBill
	KindBond
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindFRA:
		return "fra"
	case KindFuture:
		return "future"
	case KindSwap:
		return "swap"
	case KindBill:
		return "bill"
	case KindBond:
		return "bond"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Instrument is an immutable calibration instrument.
type Instrument interface {
	Kind() Kind
	// Maturity is the pillar date the instrument calibrates.
	Maturity() time.Time
	// PV is the theoretical value against ts minus the observed market value.
	PV(ts curve.TermStructure) (float64, error)
	// ImpliedDiscountFactor returns the discount factor at Maturity that
	// makes PV equal targetPV, with every earlier discount factor read from ts.
	ImpliedDiscountFactor(ts curve.TermStructure, targetPV float64) (float64, error)
	Description() string
}

// FlowKind tags a cash flow.
type FlowKind int

const (
	FlowCoupon FlowKind = iota
	FlowPrincipal
	FlowCouponAndPrincipal
)

// CashFlow is a dated amount, already adjusted for business days.
type CashFlow struct {
	Date   time.Time
	Amount float64
	Kind   FlowKind
}

func discountFactor(ts curve.TermStructure, date time.Time) (float64, error) {
	return curve.DiscountFactorAtDate(ts, date)
}

func invalid(op, format string, args ...any) error {
	return &curve.Error{Kind: curve.InvalidData, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func mathError(op, format string, args ...any) error {
	return &curve.Error{Kind: curve.MathError, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func ymd(t time.Time) string { return t.Format("2006-01-02") }
