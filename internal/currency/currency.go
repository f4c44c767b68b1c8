// Package currency formats USD-denominated amounts for display in a
// shopper's selected currency. It is a presentation transform only:
// charge amounts stay in USD everywhere else in the system.
package currency

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Info describes one supported currency.
type Info struct {
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
	Name   string  `json:"name"`
}

// Table maps currency codes to display metadata and USD exchange rates.
// The table is injected configuration so rates can change without a code
// change.
type Table map[string]Info

// DefaultTable returns the built-in rate snapshot used when no table is
// configured.
func DefaultTable() Table {
	return Table{
		"USD": {Symbol: "$", Rate: 1, Name: "USA (USD)"},
		"INR": {Symbol: "₹", Rate: 86.50, Name: "India (INR)"},
		"EUR": {Symbol: "€", Rate: 0.92, Name: "Europe (EUR)"},
		"GBP": {Symbol: "£", Rate: 0.79, Name: "UK (GBP)"},
		"AED": {Symbol: "د.إ", Rate: 3.67, Name: "UAE (AED)"},
		"AUD": {Symbol: "A$", Rate: 1.52, Name: "Australia (AUD)"},
		"CAD": {Symbol: "C$", Rate: 1.38, Name: "Canada (CAD)"},
		"SGD": {Symbol: "S$", Rate: 1.34, Name: "Singapore (SGD)"},
	}
}

// Validate rejects tables with non-positive rates or missing symbols.
func (t Table) Validate() error {
	for code, info := range t {
		if info.Rate <= 0 {
			return fmt.Errorf("currency %s: rate must be positive, got %g", code, info.Rate)
		}
		if strings.TrimSpace(info.Symbol) == "" {
			return fmt.Errorf("currency %s: symbol is required", code)
		}
	}
	return nil
}

// info falls back to USD identity formatting for unknown codes so the UI
// never breaks on a stale or mistyped code.
func (t Table) info(code string) Info {
	if i, ok := t[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return i
	}
	return Info{Symbol: "$", Rate: 1, Name: "USA (USD)"}
}

// Convert formats a USD amount for display in the given currency: apply
// the rate, round to the nearest whole unit, group thousands, prefix the
// symbol.
func (t Table) Convert(amountUSD float64, code string) string {
	i := t.info(code)
	rounded := int64(math.Round(amountUSD * i.Rate))
	return i.Symbol + groupThousands(rounded)
}

// Symbol returns the display symbol for a currency code.
func (t Table) Symbol(code string) string {
	return t.info(code).Symbol
}

// Name returns the display name for a currency code.
func (t Table) Name(code string) string {
	return t.info(code).Name
}

// Codes returns the configured currency codes in sorted order.
func (t Table) Codes() []string {
	out := make([]string, 0, len(t))
	for code := range t {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func groupThousands(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
