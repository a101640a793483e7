// Package finance holds the projection engine: pure, stateless arithmetic
// for runway, profit, budget impact, goal timelines and scenario planning,
// plus the aggregator that folds transactions into per-category totals.
//
// Nothing in this package performs I/O or mutates its arguments, so every
// function is safe for concurrent use.
package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Infinity is rendered for an unbounded runway or an unreachable goal.
const Infinity = "∞"

// Months is a duration in months. +Inf means "unbounded".
type Months float64

// Unbounded returns +Inf months.
func Unbounded() Months { return Months(math.Inf(1)) }

// IsInf reports whether m is unbounded.
func (m Months) IsInf() bool { return math.IsInf(float64(m), 1) }

func (m Months) String() string {
	if m.IsInf() {
		return Infinity
	}
	return strconv.FormatFloat(float64(m), 'f', 1, 64)
}

func (m Months) MarshalJSON() ([]byte, error) {
	if m.IsInf() {
		return json.Marshal(Infinity)
	}
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, -1) {
		return nil, fmt.Errorf("finance: invalid month count %v", f)
	}
	return json.Marshal(RoundTo(f, 2))
}

func (m *Months) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch s {
		case Infinity, "Infinity", "inf", "+Inf":
			*m = Unbounded()
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("finance: invalid month count %q", s)
		}
		*m = Months(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Months(f)
	return nil
}

// RoundCurrency rounds half away from zero to cents.
func RoundCurrency(x float64) float64 {
	return RoundTo(x, 2)
}

// RoundTo rounds to the given number of decimal places. Non-finite values
// pass through unchanged.
func RoundTo(x float64, places int32) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// SafeDiv divides n by d, reporting false instead of producing Inf/NaN.
func SafeDiv(n, d float64) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	return n / d, true
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	q, ok := SafeDiv(part, whole)
	if !ok {
		return 0
	}
	return q * 100
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders amount with thousands separators and two decimals,
// prefixed by the currency symbol, e.g. "$12,450.00" or "-$60.00".
func FormatCurrency(amount float64, code string) string {
	sym, ok := currencySymbols[code]
	if !ok {
		if code == "" {
			sym = "$"
		} else {
			sym = code + " "
		}
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + sym + printer.Sprintf("%.2f", RoundCurrency(amount))
}

// FormatWhole renders amount rounded to whole units, e.g. "$3,200".
func FormatWhole(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + printer.Sprintf("%d", int64(math.Round(amount)))
}
