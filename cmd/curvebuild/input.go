package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/utils"
)

// curveInput is the market snapshot a curve is built from. Quotes accept
// JSON numbers or decimal strings.
type curveInput struct {
	TaskID        string            `json:"task_id,omitempty"`
	ReferenceDate string            `json:"reference_date"`
	Interpolation string            `json:"interpolation,omitempty"`
	Instruments   []instrumentQuote `json:"instruments"`
	OutputTenors  []string          `json:"output_tenors,omitempty"`
}

type instrumentQuote struct {
	Type string `json:"type"`
	// Start and End accept a date (YYYY-MM-DD) or a tenor from the
	// reference date ("3M", "5Y"). Start defaults to the reference date.
	Start string `json:"start,omitempty"`
	End   string `json:"end"`

	Rate      decimal.Decimal `json:"rate"`
	Price     decimal.Decimal `json:"price"`
	Face      decimal.Decimal `json:"face"`
	Convexity decimal.Decimal `json:"convexity"`
	Notional  decimal.Decimal `json:"notional"`

	DayCount        string `json:"day_count,omitempty"`
	FrequencyMonths int    `json:"frequency_months,omitempty"`

	Cashflows []cashflowRow `json:"cashflows,omitempty"`
}

type cashflowRow struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

func readInput(path string) ([]byte, error) {
	if path != "" && path != "-" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func decodeStrict(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty input")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// resolveDate reads s as a tenor from ref or as a calendar date.
func resolveDate(ref time.Time, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ref, nil
	}
	if tenor, err := instrument.ParseTenor(s); err == nil {
		return tenor.AddTo(ref), nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a tenor nor a date", s)
	}
	return d, nil
}

func valueOr(d decimal.Decimal, fallback float64) float64 {
	if d.IsZero() {
		return fallback
	}
	return d.InexactFloat64()
}

func dayCounter(name, fallback string) (utils.YearFractionFunc, error) {
	if strings.TrimSpace(name) == "" {
		name = fallback
	}
	return utils.DayCounter(name)
}

// toInstrument builds the calibration instrument described by q.
func (q instrumentQuote) toInstrument(ref time.Time) (instrument.Instrument, error) {
	start, err := resolveDate(ref, q.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	var end time.Time
	if strings.ToLower(q.Type) != "bond" {
		if end, err = resolveDate(ref, q.End); err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
	}
	notional := valueOr(q.Notional, 1)

	switch strings.ToLower(q.Type) {
	case "bill":
		return instrument.NewBill(end, q.Price.InexactFloat64(), valueOr(q.Face, instrument.DefaultFace))
	case "deposit":
		dc, err := dayCounter(q.DayCount, utils.ACT360)
		if err != nil {
			return nil, err
		}
		return instrument.NewDeposit(start, end, q.Rate.InexactFloat64(), dc, notional)
	case "fra":
		dc, err := dayCounter(q.DayCount, utils.ACT360)
		if err != nil {
			return nil, err
		}
		return instrument.NewFRA(start, end, q.Rate.InexactFloat64(), dc, notional)
	case "future":
		dc, err := dayCounter(q.DayCount, utils.ACT360)
		if err != nil {
			return nil, err
		}
		return instrument.NewFuture(start, end, q.Price.InexactFloat64(), q.Convexity.InexactFloat64(), dc, notional)
	case "swap":
		dc, err := dayCounter(q.DayCount, utils.ACT365F)
		if err != nil {
			return nil, err
		}
		months := q.FrequencyMonths
		if months == 0 {
			months = 12
		}
		return instrument.NewSwapFromSchedule(start, end, months, q.Rate.InexactFloat64(), dc, notional)
	case "bond":
		flows, err := parseCashflows(q.Cashflows)
		if err != nil {
			return nil, err
		}
		return instrument.NewCouponBond(start, flows, q.Price.InexactFloat64())
	}
	return nil, fmt.Errorf("unsupported instrument type %q", q.Type)
}

func parseCashflows(rows []cashflowRow) ([]instrument.CashFlow, error) {
	flows := make([]instrument.CashFlow, 0, len(rows))
	for _, r := range rows {
		d, err := utils.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid cashflow date %s: %v", r.Date, err)
		}
		flows = append(flows, instrument.CashFlow{Date: d, Amount: r.Amount.InexactFloat64()})
	}
	if n := len(flows); n > 0 {
		flows[n-1].Kind = instrument.FlowCouponAndPrincipal
	}
	return flows, nil
}
