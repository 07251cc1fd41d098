package curve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meenmo/mocurve/curve"
)

func TestValueTypePredicates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		vt          curve.ValueType
		toDF, rate  bool
		prob, cred  bool
		short, name string
	}{
		{curve.DiscountFactorType(), true, false, true, false, "DF", "DiscountFactor"},
		{curve.ZeroRateType(curve.Continuous, "ACT/365F"), true, true, false, false, "Zero", "ZeroRate(Continuous, ACT/365F)"},
		{curve.ForwardRateType(0.25, curve.Simple), false, true, false, false, "Fwd", "ForwardRate(0.25Y, Simple)"},
		{curve.InstantaneousForwardType(), false, true, false, false, "InstFwd", "InstantaneousForward"},
		{curve.SurvivalProbabilityType(), true, false, true, true, "Surv", "SurvivalProbability"},
		{curve.HazardRateType(), false, true, false, true, "Hazard", "HazardRate"},
		{curve.CreditSpreadType(curve.CDSSpread, curve.DefaultRecovery), false, true, false, true, "Spread", "CreditSpread(CDS, R=40%)"},
		{curve.InflationIndexRatioType(), false, false, false, false, "InflRatio", "InflationIndexRatio"},
		{curve.FxForwardPointsType(), false, false, false, false, "FxPts", "FxForwardPoints"},
		{curve.ParSwapRateType(2, "30/360"), false, true, false, false, "ParSwap", "ParSwapRate(2x, 30/360)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.toDF, tc.vt.CanConvertToDiscountFactor())
			assert.Equal(t, tc.rate, tc.vt.IsRateType())
			assert.Equal(t, tc.prob, tc.vt.IsProbabilityType())
			assert.Equal(t, tc.cred, tc.vt.IsCreditType())
			assert.Equal(t, tc.short, tc.vt.ShortName())
			assert.Equal(t, tc.name, tc.vt.String())
		})
	}
}

func TestValueTypeEquality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, curve.ZeroRateType(curve.Annual, "ACT/360"), curve.ZeroRateType(curve.Annual, "ACT/360"))
	assert.NotEqual(t, curve.ZeroRateType(curve.Annual, "ACT/360"), curve.ZeroRateType(curve.Continuous, "ACT/360"))
}
