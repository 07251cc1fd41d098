package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/mocurve/bootstrap"
	"github.com/meenmo/mocurve/config"
	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/extrapolate"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/utils"
)

const outputDecimals = 10

var defaultOutputTenors = []string{"1M", "3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y", "15Y", "20Y", "30Y"}

type buildOutput struct {
	TaskID        string        `json:"task_id,omitempty"`
	ReferenceDate string        `json:"reference_date"`
	Interpolation string        `json:"interpolation"`
	Extrapolator  string        `json:"extrapolator,omitempty"`
	Pillars       []pillarRow   `json:"pillars"`
	Points        []pointRow    `json:"points"`
	Report        reportSummary `json:"report"`
}

type pillarRow struct {
	Date           string  `json:"date"`
	Years          float64 `json:"years"`
	DiscountFactor float64 `json:"discount_factor"`
	ZeroRate       float64 `json:"zero_rate"`
}

type pointRow struct {
	Tenor          string  `json:"tenor"`
	Date           string  `json:"date"`
	Years          float64 `json:"years"`
	DiscountFactor float64 `json:"discount_factor"`
	ZeroRate       float64 `json:"zero_rate"`
	ForwardRate    float64 `json:"instantaneous_forward"`
}

type reportSummary struct {
	Converged       bool            `json:"converged"`
	Iterations      int             `json:"iterations"`
	MaxError        float64         `json:"max_error"`
	SumSquaredError float64         `json:"sum_squared_error"`
	Monotonic       bool            `json:"monotonic"`
	Instruments     []instrumentRow `json:"instruments"`
}

type instrumentRow struct {
	Description    string  `json:"description"`
	Kind           string  `json:"kind"`
	Maturity       string  `json:"maturity"`
	DiscountFactor float64 `json:"discount_factor"`
	Residual       float64 `json:"residual"`
}

// builtCurve is a calibrated curve, optionally extended at the long end.
type builtCurve struct {
	ref       time.Time
	pillars   *curve.DiscreteCurve
	curve     curve.TermStructure
	report    *bootstrap.Report
	extension extrapolate.Extrapolator
}

func newBuildCommand(opts *rootOptions) *cobra.Command {
	var inputPath, ufr string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bootstrap a discount curve from market quotes",
		Long: `Bootstrap a discount curve from deposits, FRAs, futures, swaps, bills and
bonds, optionally extended with a Smith-Wilson long end, and print pillars,
sampled points and the repricing report as JSON.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if ufr != "" {
				cfg.Bootstrap.UFR = ufr
			}
			raw, err := readInput(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var in curveInput
			if err := decodeStrict(raw, &in); err != nil {
				return fmt.Errorf("parse JSON: %w", err)
			}
			out, err := runBuild(in, cfg, log)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON input path (reads stdin if omitted)")
	cmd.Flags().StringVar(&ufr, "ufr", "", "Smith-Wilson preset for the long end (EUR, GBP, USD, CHF)")
	return cmd
}

// buildCurve calibrates in against cfg.
func buildCurve(in curveInput, cfg config.Config, log zerolog.Logger) (*builtCurve, error) {
	ref, err := utils.ParseDate(in.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid reference_date: %v", err)
	}
	if in.Interpolation != "" {
		cfg.Bootstrap.Interpolation = in.Interpolation
	}
	bc, err := cfg.BootstrapConfig()
	if err != nil {
		return nil, err
	}
	sc, err := cfg.SolverConfig()
	if err != nil {
		return nil, err
	}

	insts := make([]instrument.Instrument, 0, len(in.Instruments))
	for i, q := range in.Instruments {
		inst, err := q.toInstrument(ref)
		if err != nil {
			return nil, fmt.Errorf("instrument %d (%s): %w", i, q.Type, err)
		}
		insts = append(insts, inst)
	}

	b := bootstrap.New(ref, bc, bootstrap.WithLogger(log), bootstrap.WithSolverConfig(sc))
	if err := b.Add(insts...); err != nil {
		return nil, err
	}
	pillars, report, err := b.Bootstrap()
	if err != nil {
		return nil, err
	}

	out := &builtCurve{ref: ref, pillars: pillars, curve: pillars, report: report}
	ex, err := cfg.Extrapolator()
	if err != nil {
		return nil, err
	}
	if ex != nil {
		extended, err := extrapolate.NewCurve(pillars, ex, cfg.Bootstrap.Horizon)
		if err != nil {
			return nil, err
		}
		out.curve, out.extension = extended, ex
	}
	return out, nil
}

func runBuild(in curveInput, cfg config.Config, log zerolog.Logger) (*buildOutput, error) {
	bc, err := buildCurve(in, cfg, log)
	if err != nil {
		return nil, err
	}

	out := &buildOutput{
		TaskID:        in.TaskID,
		ReferenceDate: utils.FormatDate(bc.ref),
		Interpolation: bc.pillars.Interpolation().String(),
		Report:        summarize(bc.report),
	}
	if bc.extension != nil {
		out.Extrapolator = bc.extension.Name()
	}

	tenors, dfs := bc.pillars.Tenors(), bc.pillars.Values()
	for i, t := range tenors {
		if t == 0 {
			continue
		}
		z, err := curve.ZeroRate(bc.pillars, t, curve.Continuous)
		if err != nil {
			return nil, err
		}
		out.Pillars = append(out.Pillars, pillarRow{
			Date:           utils.FormatDate(curve.TenorToDate(bc.pillars, t)),
			Years:          round(t),
			DiscountFactor: round(dfs[i]),
			ZeroRate:       round(z),
		})
	}

	labels := in.OutputTenors
	if len(labels) == 0 {
		labels = defaultOutputTenors
	}
	for _, label := range labels {
		row, ok, err := samplePoint(bc, label)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Points = append(out.Points, row)
		}
	}
	return out, nil
}

// samplePoint evaluates the curve at a tenor label. Tenors beyond the curve
// are skipped.
func samplePoint(bc *builtCurve, label string) (pointRow, bool, error) {
	tenor, err := instrument.ParseTenor(label)
	if err != nil {
		return pointRow{}, false, fmt.Errorf("output tenor: %w", err)
	}
	date := tenor.AddTo(bc.ref)
	t := curve.YearsBetween(bc.ref, date)
	if !curve.InRange(bc.curve, t) {
		return pointRow{}, false, nil
	}
	df, err := curve.DiscountFactor(bc.curve, t)
	if err != nil {
		return pointRow{}, false, err
	}
	z, err := curve.ZeroRate(bc.curve, t, curve.Continuous)
	if err != nil {
		return pointRow{}, false, err
	}
	f, err := curve.InstantaneousForward(bc.curve, t)
	if err != nil {
		return pointRow{}, false, err
	}
	return pointRow{
		Tenor:          strings.ToUpper(label),
		Date:           utils.FormatDate(date),
		Years:          round(t),
		DiscountFactor: round(df),
		ZeroRate:       round(z),
		ForwardRate:    round(f),
	}, true, nil
}

func summarize(r *bootstrap.Report) reportSummary {
	s := reportSummary{
		Converged:       r.Converged,
		Iterations:      r.Iterations,
		MaxError:        r.MaxError,
		SumSquaredError: r.SumSquaredError,
		Monotonic:       r.Monotonic,
		Instruments:     make([]instrumentRow, len(r.Instruments)),
	}
	for i, ir := range r.Instruments {
		s.Instruments[i] = instrumentRow{
			Description:    ir.Description,
			Kind:           ir.Kind.String(),
			Maturity:       utils.FormatDate(ir.Maturity),
			DiscountFactor: round(ir.DiscountFactor),
			Residual:       ir.Residual,
		}
	}
	return s
}

func round(v float64) float64 { return utils.RoundTo(v, outputDecimals) }
