package pricing

import "fmt"

// Discount is the site-wide display discount used to reconstruct "was"
// prices for strikethrough display. It never changes charge amounts.
type Discount struct {
	percent float64
}

// NewDiscount validates the configured percentage. A value of 100 or more
// would divide by zero (or go negative) in OriginalPrice, so it is
// rejected here at configuration time rather than detected at display
// time.
func NewDiscount(percent float64) (Discount, error) {
	if percent < 0 || percent >= 100 {
		return Discount{}, fmt.Errorf("discount percent must be in [0, 100), got %g", percent)
	}
	return Discount{percent: percent}, nil
}

// Percent returns the configured percentage.
func (d Discount) Percent() float64 {
	return d.percent
}

// OriginalPrice reconstructs the pre-discount price from today's
// discounted price.
func (d Discount) OriginalPrice(current float64) float64 {
	return current / (1 - d.percent/100)
}

// Multiplier returns the factor that maps a discounted price back to its
// original price.
func (d Discount) Multiplier() float64 {
	return 1 / (1 - d.percent/100)
}
