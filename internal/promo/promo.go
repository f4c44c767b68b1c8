// Package promo implements the checkout-time promo code table. Codes are
// percentage discounts loaded from configuration; this is distinct from
// the catalog-wide display discount in package pricing.
package promo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCode is returned when a code is unknown or empty.
var ErrInvalidCode = errors.New("invalid promo code")

// Code is one redeemable promo code.
type Code struct {
	Code        string  `json:"code"`
	Percent     float64 `json:"percent"`
	Description string  `json:"description"`
}

// Table indexes promo codes by their normalized form.
type Table map[string]Code

// ParseEnv builds a table from the three parallel comma-separated lists
// the deployment provides: codes, their percentages, and optional
// descriptions. Entries with a missing or non-positive percentage are
// skipped.
func ParseEnv(codes, percents, descriptions string) (Table, error) {
	codeList := splitCSV(codes)
	percentList := splitCSV(percents)
	descList := splitCSV(descriptions)
	if len(codeList) == 0 {
		return Table{}, nil
	}
	if len(percentList) != len(codeList) {
		return nil, fmt.Errorf("promo config: %d codes but %d discounts", len(codeList), len(percentList))
	}
	table := make(Table, len(codeList))
	for i, raw := range codeList {
		code := normalize(raw)
		if code == "" {
			continue
		}
		percent, err := strconv.ParseFloat(percentList[i], 64)
		if err != nil {
			return nil, fmt.Errorf("promo config: discount for %s: %w", code, err)
		}
		if percent <= 0 || percent > 100 {
			return nil, fmt.Errorf("promo config: discount for %s must be in (0, 100], got %g", code, percent)
		}
		description := ""
		if i < len(descList) {
			description = descList[i]
		}
		if description == "" {
			description = fmt.Sprintf("%g%% off on your order", percent)
		}
		table[code] = Code{Code: code, Percent: percent, Description: description}
	}
	return table, nil
}

// Lookup resolves a shopper-entered code, tolerating case and whitespace.
func (t Table) Lookup(code string) (Code, error) {
	normalized := normalize(code)
	if normalized == "" {
		return Code{}, fmt.Errorf("promo code required: %w", ErrInvalidCode)
	}
	c, ok := t[normalized]
	if !ok {
		return Code{}, ErrInvalidCode
	}
	return c, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
