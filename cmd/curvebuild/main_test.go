package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mocurve/config"
)

const quotesJSON = `{
	"task_id": "eur-eod",
	"reference_date": "2025-01-15",
	"interpolation": "log-linear",
	"instruments": [
		{"type": "deposit", "end": "3M", "rate": "0.0300"},
		{"type": "deposit", "end": "6M", "rate": 0.0305},
		{"type": "bill", "end": "2025-10-15", "price": "97.70", "face": "100"},
		{"type": "swap", "end": "2Y", "rate": "0.0320", "frequency_months": 12},
		{"type": "swap", "end": "5Y", "rate": "0.0340", "frequency_months": 12},
		{"type": "swap", "end": "10Y", "rate": "0.0360", "frequency_months": 12}
	],
	"output_tenors": ["1Y", "5Y", "10Y", "40Y"]
}`

func decodeQuotes(t *testing.T) curveInput {
	t.Helper()
	var in curveInput
	require.NoError(t, decodeStrict([]byte(quotesJSON), &in))
	return in
}

func TestRunBuild(t *testing.T) {
	out, err := runBuild(decodeQuotes(t), config.Default(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "eur-eod", out.TaskID)
	assert.Equal(t, "log-linear", out.Interpolation)
	assert.True(t, out.Report.Converged)
	assert.True(t, out.Report.Monotonic)
	require.Len(t, out.Pillars, 6)
	require.Len(t, out.Report.Instruments, 6)
	for _, ir := range out.Report.Instruments {
		assert.InDelta(t, 0, ir.Residual, 1e-6, ir.Description)
	}

	// 40Y lies beyond the last pillar and is skipped without extrapolation.
	require.Len(t, out.Points, 3)
	assert.Equal(t, "5Y", out.Points[1].Tenor)
	assert.InDelta(t, 0.034, out.Points[1].ZeroRate, 0.002)
	assert.Empty(t, out.Extrapolator)
}

func TestRunBuildWithUFR(t *testing.T) {
	cfg := config.Default()
	cfg.Bootstrap.UFR = "EUR"
	out, err := runBuild(decodeQuotes(t), cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Contains(t, out.Extrapolator, "smith-wilson")
	require.Len(t, out.Points, 4)
	long := out.Points[3]
	assert.Equal(t, "40Y", long.Tenor)
	assert.Greater(t, long.DiscountFactor, 0.0)
	assert.Less(t, long.DiscountFactor, out.Points[2].DiscountFactor)
}

func TestRunBuildErrors(t *testing.T) {
	in := decodeQuotes(t)
	in.ReferenceDate = "15/01/2025"
	_, err := runBuild(in, config.Default(), zerolog.Nop())
	assert.Error(t, err)

	in = decodeQuotes(t)
	in.Instruments = append(in.Instruments, instrumentQuote{Type: "cds", End: "5Y"})
	_, err = runBuild(in, config.Default(), zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported instrument type")

	in = decodeQuotes(t)
	in.Instruments = nil
	_, err = runBuild(in, config.Default(), zerolog.Nop())
	assert.Error(t, err)

	var bad curveInput
	assert.Error(t, decodeStrict([]byte(`{"reference_date": "2025-01-15", "bogus": 1}`), &bad))
	assert.Error(t, decodeStrict([]byte("  "), &bad))
}

func TestRunASW(t *testing.T) {
	in := aswInput{
		Curve: decodeQuotes(t),
		Bonds: []bondCase{{
			ISIN: "XS0000000001",
			Cashflows: []cashflowRow{
				{Date: "2026-01-15", Amount: mustDecimal(t, "3")},
				{Date: "2027-01-15", Amount: mustDecimal(t, "3")},
				{Date: "2028-01-15", Amount: mustDecimal(t, "103")},
			},
			DirtyPrice: mustDecimal(t, "97"),
		}},
	}
	out, err := runASW(in, config.Default(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, out.Bonds, 1)

	row := out.Bonds[0]
	assert.Empty(t, row.Error)
	assert.Equal(t, "2028-01-15", row.Maturity)
	assert.Greater(t, row.Yield, 0.03)
	assert.Greater(t, row.PV01BP, 0.0)
	// A bond below its risk-free value trades at a positive spread.
	assert.Greater(t, row.PVRiskFree, row.DirtyPrice)
	assert.Greater(t, row.ASWSpreadBP, 0.0)
	assert.Greater(t, row.ZSpreadBP, 0.0)

	in.Bonds[0].Cashflows = nil
	out, err = runASW(in, config.Default(), zerolog.Nop())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Bonds[0].Error)

	in.Bonds = nil
	_, err = runASW(in, config.Default(), zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte(quotesJSON), 0o600))

	var stdout bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"build", "--input", path, "--ufr", "USD", "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	var out buildOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "2025-01-15", out.ReferenceDate)
	assert.Contains(t, out.Extrapolator, "llp=30y")
	assert.Len(t, out.Points, 4)
}

func TestResolveDate(t *testing.T) {
	in := decodeQuotes(t)
	ref, err := resolveDate(mustDate(t, in.ReferenceDate), "")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", ref.Format("2006-01-02"))

	d, err := resolveDate(ref, "18M")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", d.Format("2006-01-02"))

	d, err = resolveDate(ref, "2030-06-30")
	require.NoError(t, err)
	assert.Equal(t, 2030, d.Year())

	_, err = resolveDate(ref, "soon")
	assert.Error(t, err)
}
