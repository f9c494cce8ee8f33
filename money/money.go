package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundCents rounds x half-up (away from zero on ties) to 2 decimals.
func RoundCents(x float64) float64 {
	return Round(x, 2)
}

// Round rounds x half-up to the given number of decimal places.
//
// The value goes through its shortest decimal representation first, so
// 1.005 rounds to 1.01 the way it reads rather than to 1.00 the way its
// binary approximation would.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// RoundUp rounds x toward positive infinity at the given number of decimal
// places, reading x by its shortest decimal representation as Round does.
func RoundUp(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).RoundCeil(places).InexactFloat64()
}

// PctToUnit converts a percentage (6.5) to a unit rate (0.065).
func PctToUnit(p float64) float64 {
	return p / 100
}

// UnitToPct converts a unit rate (0.065) to a percentage (6.5).
func UnitToPct(u float64) float64 {
	return u * 100
}

var stripper = strings.NewReplacer("$", "", ",", "", "_", "", "%", "", " ", "")

// Parse is the one routine that turns user supplied text into a number.
// Currency symbols, thousands separators and percent signs are ignored:
// "$250,000" -> 250000, "6.5%" -> 6.5.
func Parse(s string) (float64, error) {
	clean := stripper.Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty value")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return f, nil
}

// Format writes x as dollars with thousands separators and cents:
// 1580.17 -> "$1,580.17", -12.5 -> "-$12.50".
func Format(x float64) string {
	if x < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -x)
	}
	return "$" + humanize.FormatFloat("#,###.##", x)
}

// FormatPercent writes a percentage with two decimals and a percent sign.
func FormatPercent(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "%"
}

// FormatYears writes a year count with no trailing zeros.
func FormatYears(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
