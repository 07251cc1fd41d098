package curve

import "math"

// Conversions between curve value representations. The plain functions
// return NaN for inputs with no meaningful answer; the *Checked variants
// return a typed error instead.

// ZeroRateToDiscountFactor returns the discount factor implied by rate r over t years:
//
//	continuous  DF = e^(−rt)
//	periodic-n  DF = (1 + r/n)^(−nt)
//	simple      DF = 1 / (1 + rt)
//
// Non-positive t gives 1.
func ZeroRateToDiscountFactor(r, t float64, c Compounding) float64 {
	if t <= 0 {
		return 1
	}
	switch c {
	case Continuous:
		return math.Exp(-r * t)
	case Simple:
		return 1 / (1 + r*t)
	}
	n := float64(c.PeriodsPerYear())
	return math.Pow(1+r/n, -n*t)
}

func ZeroRateToDiscountFactorChecked(r, t float64, c Compounding) (float64, error) {
	const op = "ZeroRateToDiscountFactor"
	if math.IsNaN(r) || math.IsNaN(t) || t < 0 {
		return math.NaN(), newError(InvalidData, op, "invalid inputs r=%g t=%g", r, t)
	}
	switch {
	case c == Simple && 1+r*t <= 0:
		return math.NaN(), newError(MathError, op, "1 + r·t is not positive (r=%g, t=%g)", r, t)
	case c.IsPeriodic() && 1+r/float64(c.PeriodsPerYear()) <= 0:
		return math.NaN(), newError(MathError, op, "1 + r/n is not positive (r=%g, %s)", r, c)
	}
	return ZeroRateToDiscountFactor(r, t, c), nil
}

// DiscountFactorToZeroRate inverts ZeroRateToDiscountFactor. It returns NaN
// when df or t is not positive.
func DiscountFactorToZeroRate(df, t float64, c Compounding) float64 {
	if !(df > 0) || !(t > 0) || math.IsInf(df, 0) {
		return math.NaN()
	}
	switch c {
	case Continuous:
		return -math.Log(df) / t
	case Simple:
		return (1/df - 1) / t
	}
	n := float64(c.PeriodsPerYear())
	return n * (math.Pow(df, -1/(n*t)) - 1)
}

func DiscountFactorToZeroRateChecked(df, t float64, c Compounding) (float64, error) {
	const op = "DiscountFactorToZeroRate"
	if !(df > 0) || math.IsInf(df, 0) {
		return math.NaN(), newError(InvalidData, op, "discount factor must be positive, got %g", df)
	}
	if !(t > 0) {
		return math.NaN(), newError(InvalidData, op, "tenor must be positive, got %g", t)
	}
	return DiscountFactorToZeroRate(df, t, c), nil
}

// ConvertCompounding re-expresses rate r quoted under from as the equivalent
// rate under to. Simple rates are taken over a one year horizon.
func ConvertCompounding(r float64, from, to Compounding) float64 {
	if from == to {
		return r
	}
	return fromContinuous(toContinuous(r, from), to)
}

func ConvertCompoundingChecked(r float64, from, to Compounding) (float64, error) {
	const op = "ConvertCompounding"
	if math.IsNaN(r) {
		return math.NaN(), newError(InvalidData, op, "rate is NaN")
	}
	switch {
	case from == Simple && 1+r <= 0:
		return math.NaN(), newError(MathError, op, "1 + r is not positive (r=%g)", r)
	case from.IsPeriodic() && 1+r/float64(from.PeriodsPerYear()) <= 0:
		return math.NaN(), newError(MathError, op, "1 + r/n is not positive (r=%g, %s)", r, from)
	}
	return ConvertCompounding(r, from, to), nil
}

func toContinuous(r float64, c Compounding) float64 {
	switch c {
	case Continuous:
		return r
	case Simple:
		return math.Log(1 + r)
	}
	n := float64(c.PeriodsPerYear())
	return n * math.Log(1+r/n)
}

func fromContinuous(r float64, c Compounding) float64 {
	switch c {
	case Continuous:
		return r
	case Simple:
		return math.Exp(r) - 1
	}
	n := float64(c.PeriodsPerYear())
	return n * (math.Exp(r/n) - 1)
}

// ForwardRateFromDiscountFactors returns the rate for the period [t1, t2]
// implied by the discount factors at its ends.
func ForwardRateFromDiscountFactors(df1, df2, t1, t2 float64, c Compounding) float64 {
	dt := t2 - t1
	if !(dt > 0) || !(df1 > 0) || !(df2 > 0) {
		return math.NaN()
	}
	ratio := df1 / df2
	switch c {
	case Continuous:
		return math.Log(ratio) / dt
	case Simple:
		return (ratio - 1) / dt
	}
	return fromContinuous(math.Log(ratio)/dt, c)
}

func ForwardRateFromDiscountFactorsChecked(df1, df2, t1, t2 float64, c Compounding) (float64, error) {
	const op = "ForwardRateFromDiscountFactors"
	if !(t2 > t1) {
		return math.NaN(), newError(InvalidData, op, "end tenor %g must be after start tenor %g", t2, t1)
	}
	if !(df1 > 0) || !(df2 > 0) {
		return math.NaN(), newError(InvalidData, op, "discount factors must be positive, got %g and %g", df1, df2)
	}
	return ForwardRateFromDiscountFactors(df1, df2, t1, t2, c), nil
}

// InstantaneousForwardFromZeroRate returns f(t) = r(t) + t·r'(t) for a
// continuously compounded zero rate r.
func InstantaneousForwardFromZeroRate(r, drdt, t float64) float64 {
	return r + t*drdt
}

// InstantaneousForwardFromDiscountFactor returns f(t) = −DF'(t)/DF(t).
func InstantaneousForwardFromDiscountFactor(df, ddfdt float64) float64 {
	if !(df > 0) {
		return math.NaN()
	}
	return -ddfdt / df
}

// SurvivalFromHazard returns Q(t) = e^(−ht) for a flat hazard rate h.
func SurvivalFromHazard(h, t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-h * t)
}

// HazardFromSurvival returns the flat hazard rate −ln(Q)/t.
func HazardFromSurvival(q, t float64) float64 {
	if !(q > 0) || !(t > 0) {
		return math.NaN()
	}
	return -math.Log(q) / t
}

func HazardFromSurvivalChecked(q, t float64) (float64, error) {
	const op = "HazardFromSurvival"
	if !(q > 0) || q > 1 {
		return math.NaN(), newError(InvalidData, op, "survival probability must be in (0, 1], got %g", q)
	}
	if !(t > 0) {
		return math.NaN(), newError(InvalidData, op, "tenor must be positive, got %g", t)
	}
	return HazardFromSurvival(q, t), nil
}

// HazardFromSurvivalSlope returns the local hazard rate −Q'(t)/Q(t).
func HazardFromSurvivalSlope(q, dqdt float64) float64 {
	if !(q > 0) {
		return math.NaN()
	}
	return -dqdt / q
}

// RiskyDiscountFactor combines a risk-free discount factor with a survival
// probability under recovery-of-par: DF·(R + (1−R)·Q).
func RiskyDiscountFactor(df, q, recovery float64) float64 {
	return df * (recovery + (1-recovery)*q)
}

// CreditSpreadFromHazard returns the credit triangle spread h·(1−R).
func CreditSpreadFromHazard(h, recovery float64) float64 {
	return h * (1 - recovery)
}

// HazardFromCreditSpread inverts CreditSpreadFromHazard.
func HazardFromCreditSpread(s, recovery float64) float64 {
	if recovery >= 1 {
		return math.NaN()
	}
	return s / (1 - recovery)
}

func HazardFromCreditSpreadChecked(s, recovery float64) (float64, error) {
	if recovery < 0 || recovery >= 1 {
		return math.NaN(), newError(InvalidData, "HazardFromCreditSpread", "recovery must be in [0, 1), got %g", recovery)
	}
	return HazardFromCreditSpread(s, recovery), nil
}
