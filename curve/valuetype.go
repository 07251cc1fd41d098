package curve

import "fmt"

// DefaultRecovery is the recovery rate assumed by credit spread curves.
const DefaultRecovery = 0.40

// ValueKind identifies what a curve returns when evaluated.
type ValueKind int

const (
	ValueDiscountFactor ValueKind = iota
	ValueZeroRate
	ValueForwardRate
	ValueInstantaneousForward
	ValueSurvivalProbability
	ValueHazardRate
	ValueCreditSpread
	ValueInflationIndexRatio
	ValueFxForwardPoints
	ValueParSwapRate
)

// CreditSpreadKind says how a credit spread is quoted.
type CreditSpreadKind int

const (
	ZSpread CreditSpreadKind = iota
	CDSSpread
	AssetSwapSpread
)

func (k CreditSpreadKind) String() string {
	switch k {
	case ZSpread:
		return "Z"
	case CDSSpread:
		return "CDS"
	case AssetSwapSpread:
		return "ASW"
	}
	return fmt.Sprintf("CreditSpreadKind(%d)", int(k))
}

// ValueType tags a curve with the meaning of its values. Only the fields
// relevant to Kind are set, so two ValueTypes can be compared with ==.
type ValueType struct {
	Kind ValueKind

	// Compounding applies to zero and forward rates.
	Compounding Compounding
	// DayCount applies to zero rates and par swap rates.
	DayCount string
	// Tenor is the forward period in years for forward rates.
	Tenor float64
	// Frequency is the fixed-leg payments per year of a par swap rate.
	Frequency int
	// SpreadKind and Recovery apply to credit spreads.
	SpreadKind CreditSpreadKind
	Recovery   float64
}

func DiscountFactorType() ValueType { return ValueType{Kind: ValueDiscountFactor} }

func ZeroRateType(c Compounding, dayCount string) ValueType {
	return ValueType{Kind: ValueZeroRate, Compounding: c, DayCount: dayCount}
}

func ForwardRateType(tenor float64, c Compounding) ValueType {
	return ValueType{Kind: ValueForwardRate, Tenor: tenor, Compounding: c}
}

func InstantaneousForwardType() ValueType { return ValueType{Kind: ValueInstantaneousForward} }

func SurvivalProbabilityType() ValueType { return ValueType{Kind: ValueSurvivalProbability} }

func HazardRateType() ValueType { return ValueType{Kind: ValueHazardRate} }

func CreditSpreadType(kind CreditSpreadKind, recovery float64) ValueType {
	return ValueType{Kind: ValueCreditSpread, SpreadKind: kind, Recovery: recovery}
}

func InflationIndexRatioType() ValueType { return ValueType{Kind: ValueInflationIndexRatio} }

func FxForwardPointsType() ValueType { return ValueType{Kind: ValueFxForwardPoints} }

func ParSwapRateType(frequency int, dayCount string) ValueType {
	return ValueType{Kind: ValueParSwapRate, Frequency: frequency, DayCount: dayCount}
}

// CanConvertToDiscountFactor reports whether values of this type map to a
// discount factor without integrating the curve.
func (v ValueType) CanConvertToDiscountFactor() bool {
	switch v.Kind {
	case ValueDiscountFactor, ValueZeroRate, ValueSurvivalProbability:
		return true
	}
	return false
}

// IsRateType reports whether values are annualised rates, so that basis
// point shifts are meaningful.
func (v ValueType) IsRateType() bool {
	switch v.Kind {
	case ValueZeroRate, ValueForwardRate, ValueInstantaneousForward, ValueHazardRate, ValueCreditSpread, ValueParSwapRate:
		return true
	}
	return false
}

// IsProbabilityType reports whether values live in [0, 1] and start at 1.
func (v ValueType) IsProbabilityType() bool {
	return v.Kind == ValueDiscountFactor || v.Kind == ValueSurvivalProbability
}

func (v ValueType) IsCreditType() bool {
	switch v.Kind {
	case ValueSurvivalProbability, ValueHazardRate, ValueCreditSpread:
		return true
	}
	return false
}

// ShortName is a compact label for reports and logs.
func (v ValueType) ShortName() string {
	switch v.Kind {
	case ValueDiscountFactor:
		return "DF"
	case ValueZeroRate:
		return "Zero"
	case ValueForwardRate:
		return "Fwd"
	case ValueInstantaneousForward:
		return "InstFwd"
	case ValueSurvivalProbability:
		return "Surv"
	case ValueHazardRate:
		return "Hazard"
	case ValueCreditSpread:
		return "Spread"
	case ValueInflationIndexRatio:
		return "InflRatio"
	case ValueFxForwardPoints:
		return "FxPts"
	case ValueParSwapRate:
		return "ParSwap"
	}
	return "?"
}

func (v ValueType) String() string {
	switch v.Kind {
	case ValueZeroRate:
		return fmt.Sprintf("ZeroRate(%s, %s)", v.Compounding, v.DayCount)
	case ValueForwardRate:
		return fmt.Sprintf("ForwardRate(%gY, %s)", v.Tenor, v.Compounding)
	case ValueCreditSpread:
		return fmt.Sprintf("CreditSpread(%s, R=%.0f%%)", v.SpreadKind, v.Recovery*100)
	case ValueParSwapRate:
		return fmt.Sprintf("ParSwapRate(%dx, %s)", v.Frequency, v.DayCount)
	case ValueDiscountFactor:
		return "DiscountFactor"
	case ValueInstantaneousForward:
		return "InstantaneousForward"
	case ValueSurvivalProbability:
		return "SurvivalProbability"
	case ValueHazardRate:
		return "HazardRate"
	case ValueInflationIndexRatio:
		return "InflationIndexRatio"
	case ValueFxForwardPoints:
		return "FxForwardPoints"
	}
	return fmt.Sprintf("ValueType(%d)", int(v.Kind))
}
