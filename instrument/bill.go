package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/mocurve/curve"
)

// DefaultFace is the face amount prices are quoted against.
const DefaultFace = 100.0

// Bill is a zero-coupon discount instrument paying Face at maturity.
type Bill struct {
	maturity time.Time
	price    float64
	face     float64
}

// NewBill builds a bill quoted at price per face.
func NewBill(maturity time.Time, price, face float64) (*Bill, error) {
	const op = "NewBill"
	if !finite(price, face) || price <= 0 || face <= 0 {
		return nil, invalid(op, "price %g and face %g must be positive", price, face)
	}
	if maturity.IsZero() {
		return nil, invalid(op, "maturity is required")
	}
	return &Bill{maturity: maturity, price: price, face: face}, nil
}

// NewBillFromDiscountRate prices a bill from a bank discount yield on an
// ACT/360 basis: price = face·(1 − d·days/360).
func NewBillFromDiscountRate(settlement, maturity time.Time, rate, face float64) (*Bill, error) {
	days := maturity.Sub(settlement).Hours() / 24
	if days <= 0 {
		return nil, invalid("NewBillFromDiscountRate", "maturity %s is not after settlement %s", ymd(maturity), ymd(settlement))
	}
	return NewBill(maturity, face*(1-rate*days/360), face)
}

func (b *Bill) Kind() Kind { return KindBill }

func (b *Bill) Maturity() time.Time { return b.maturity }

func (b *Bill) Price() float64 { return b.price }

func (b *Bill) Face() float64 { return b.face }

// PV = face·DF(T) − price.
func (b *Bill) PV(ts curve.TermStructure) (float64, error) {
	df, err := discountFactor(ts, b.maturity)
	if err != nil {
		return 0, err
	}
	return b.face*df - b.price, nil
}

// ImpliedDiscountFactor = (target + price) / face.
func (b *Bill) ImpliedDiscountFactor(_ curve.TermStructure, targetPV float64) (float64, error) {
	return (targetPV + b.price) / b.face, nil
}

func (b *Bill) Description() string {
	return fmt.Sprintf("Bill %s @ %.4f", ymd(b.maturity), b.price)
}
