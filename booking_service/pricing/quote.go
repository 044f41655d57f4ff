// Package pricing derives the displayable price breakdown for a stay. The
// calculation is pure: no I/O, no error returns, every numeric edge case is
// tolerated and surfaced as-is.
package pricing

import (
	"math"
	"time"
)

// Fee policy: fixed literals. A percentage-of-subtotal service fee existed in
// one booking flow historically; the fixed amounts are the ones every quote
// uses now.
const (
	CleaningFee = 25
	ServiceFee  = 35

	// DefaultNights substitutes when check-in/check-out are missing or
	// unparseable, instead of failing.
	DefaultNights = 5

	dateLayout = "2006-01-02"
)

// Quote is the breakdown a booking page renders.
type Quote struct {
	Nights      int `json:"nights"`
	Subtotal    int `json:"subtotal"`
	CleaningFee int `json:"cleaningFee"`
	ServiceFee  int `json:"serviceFee"`
	Total       int `json:"total"`
}

// Calculate builds a quote for a nightly price and an optional date range.
// Dates arrive as "2006-01-02" strings; absent or invalid dates fall back to
// DefaultNights. Zero or negative nights are not rejected, call sites may
// gate on Nights themselves.
func Calculate(nightlyPrice int, checkIn, checkOut string) Quote {
	nights := nightsBetween(checkIn, checkOut)
	subtotal := nightlyPrice * nights

	return Quote{
		Nights:      nights,
		Subtotal:    subtotal,
		CleaningFee: CleaningFee,
		ServiceFee:  ServiceFee,
		Total:       subtotal + CleaningFee + ServiceFee,
	}
}

// CalculateForDates is Calculate for call sites that already hold parsed
// times.
func CalculateForDates(nightlyPrice int, checkIn, checkOut time.Time) Quote {
	return Calculate(nightlyPrice, checkIn.Format(dateLayout), checkOut.Format(dateLayout))
}

// nightsBetween is the ceiling of the day difference. Any parse failure on
// either endpoint yields the default.
func nightsBetween(checkIn, checkOut string) int {
	if checkIn == "" || checkOut == "" {
		return DefaultNights
	}

	start, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return DefaultNights
	}
	end, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return DefaultNights
	}

	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
