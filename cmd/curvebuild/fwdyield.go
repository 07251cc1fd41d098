package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/mocurve/bond"
	"github.com/meenmo/mocurve/config"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/utils"
)

// forwardYieldInput is one CTD delivery. Cash-flow amounts are integer
// minor units scaled by 10000 per 100 nominal.
type forwardYieldInput struct {
	TaskID           string          `json:"task_id,omitempty"`
	SettlementDate   string          `json:"settlement_date"`
	FuturesPrice     decimal.Decimal `json:"futures_price"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	CouponRate       decimal.Decimal `json:"coupon_rate"`
	DayCount         string          `json:"day_count"`
	CouponFrequency  int             `json:"coupon_frequency"`
	Cashflows        []minorUnitsRow `json:"cashflows"`
}

type minorUnitsRow struct {
	Date      string `json:"date"`
	Coupon    int64  `json:"coupon"`
	Principal int64  `json:"principal"`
}

type forwardYieldOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	SettlementDate  string  `json:"settlement_date,omitempty"`
	FuturesPrice    float64 `json:"futures_price,omitempty"`
	InvoicePrice    float64 `json:"invoice_price,omitempty"`
	AccruedInterest float64 `json:"accrued_interest,omitempty"`
	ForwardYield    float64 `json:"forward_yield,omitempty"`
	Iterations      int     `json:"iterations,omitempty"`
	Error           string  `json:"error,omitempty"`
}

const minorUnitScale = 10000.0

func newForwardYieldCommand(opts *rootOptions) *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "fwdyield",
		Short: "CTD forward yield from a bond futures invoice price",
		Long: `Compute the forward yield of the cheapest-to-deliver bond from the futures
price, conversion factor and remaining cash flows. Accepts one object or an
array; failing entries carry their error and set exit status 1.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			raw, err := readInput(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			inputs, isArray, err := parseForwardYieldInputs(raw)
			if err != nil {
				return fmt.Errorf("parse JSON: %w", err)
			}

			hadError := false
			outputs := make([]forwardYieldOutput, 0, len(inputs))
			for _, in := range inputs {
				out, err := runForwardYield(in, cfg)
				if err != nil {
					hadError = true
					outputs = append(outputs, forwardYieldOutput{TaskID: in.TaskID, Error: err.Error()})
					continue
				}
				outputs = append(outputs, *out)
			}

			var werr error
			if isArray {
				werr = writeJSON(cmd.OutOrStdout(), outputs)
			} else {
				werr = writeJSON(cmd.OutOrStdout(), outputs[0])
			}
			if werr != nil {
				return werr
			}
			if hadError {
				return errPartialFailure
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON input path (reads stdin if omitted)")
	return cmd
}

func runForwardYield(in forwardYieldInput, cfg config.Config) (*forwardYieldOutput, error) {
	settlement, err := utils.ParseDate(in.SettlementDate)
	if err != nil {
		return nil, fmt.Errorf("invalid settlement_date: %v", err)
	}
	if dc := strings.ToUpper(strings.TrimSpace(in.DayCount)); dc != "ACT/ACT" && dc != "ACT/ACT ICMA" {
		return nil, fmt.Errorf("unsupported day_count %q (only ACT/ACT)", in.DayCount)
	}
	sc, err := cfg.SolverConfig()
	if err != nil {
		return nil, err
	}

	rows := make([]instrument.MinorUnitFlow, 0, len(in.Cashflows))
	for _, cf := range in.Cashflows {
		d, err := utils.ParseDate(cf.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid cashflow date %s: %v", cf.Date, err)
		}
		rows = append(rows, instrument.MinorUnitFlow{Date: d, Coupon: cf.Coupon, Principal: cf.Principal})
	}

	res, err := bond.ComputeForwardYield(bond.ForwardYieldInput{
		SettlementDate:   settlement,
		FuturesPrice:     in.FuturesPrice.InexactFloat64(),
		ConversionFactor: in.ConversionFactor.InexactFloat64(),
		CouponRate:       in.CouponRate.InexactFloat64(),
		CouponFrequency:  in.CouponFrequency,
		Cashflows:        instrument.ToCashFlows(rows, minorUnitScale),
	}, sc)
	if err != nil {
		return nil, err
	}

	return &forwardYieldOutput{
		TaskID:          in.TaskID,
		SettlementDate:  utils.FormatDate(settlement),
		FuturesPrice:    in.FuturesPrice.InexactFloat64(),
		InvoicePrice:    round(res.InvoicePrice),
		AccruedInterest: round(res.AccruedInterest),
		ForwardYield:    round(res.ForwardYield),
		Iterations:      res.Iterations,
	}, nil
}

// parseForwardYieldInputs accepts a single object or a non-empty array.
func parseForwardYieldInputs(raw []byte) ([]forwardYieldInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []forwardYieldInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input forwardYieldInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []forwardYieldInput{input}, false, nil
}
