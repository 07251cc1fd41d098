package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/meenmo/mocurve/bootstrap"
	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/internal/logger"
	"github.com/meenmo/mocurve/utils"
)

func main() {
	// Annual fixed vs. overnight par swap quotes, tenor in years -> rate in percent.
	quotes := map[int]float64{
		1:  2.7225000000,
		2:  2.8075000000,
		3:  2.8882142857,
		4:  2.9596428571,
		5:  3.0189285714,
		7:  3.0889285714,
		10: 3.1578571429,
		15: 3.1757142857,
		20: 3.0946428571,
	}
	ref := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	act365 := func(s, e time.Time) float64 { return utils.YearFraction(s, e, utils.ACT365F) }

	years := make([]int, 0, len(quotes))
	for y := range quotes {
		years = append(years, y)
	}
	sort.Ints(years)

	log := logger.New(logger.Config{Level: "info", Pretty: true})
	b := bootstrap.New(ref, bootstrap.DefaultConfig(), bootstrap.WithLogger(log))
	for _, y := range years {
		sw, err := instrument.NewSwapFromSchedule(ref, utils.AddMonth(ref, 12*y), 12, quotes[y]/100, act365, 1)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := b.Add(sw); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	dc, report, err := b.Bootstrap()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, ir := range report.Instruments {
		z, _ := curve.ZeroRate(dc, ir.Tenor, curve.Annual)
		fmt.Printf("%s  DF %.10f  zero %.6f%%  residual %.2e\n",
			utils.FormatDate(ir.Maturity), ir.DiscountFactor, z*100, ir.Residual)
	}
	fmt.Printf("Converged: %v after %d sweep(s)\n", report.Converged, report.Iterations)

	// Receive 3.24% on a 20Y swap against the calibrated curve.
	trade, err := instrument.NewSwapFromSchedule(ref, utils.AddMonth(ref, 240), 12, 0.0324, act365, 10000000000)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	npv, err := trade.PV(dc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("NPV: %.2f\n", npv)
}
