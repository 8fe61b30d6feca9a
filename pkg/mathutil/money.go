// Package mathutil holds the float helpers shared by the optimizer and the
// renderers.
package mathutil

import (
	"math"

	"github.com/iwvelando/ecoprice/pkg/constants"
)

// RoundCents rounds to two decimals.
func RoundCents(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Sign classifies a money amount as -1, 0 or 1. Amounts within one cent of
// zero count as zero.
func Sign(val float64) int {
	switch {
	case val > constants.CurrencyTolerance:
		return 1
	case val < -constants.CurrencyTolerance:
		return -1
	default:
		return 0
	}
}

// Near reports whether a and b differ by at most tolerance.
func Near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Max returns the larger of a and b.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PercentChange expresses delta relative to the magnitude of base, so a
// smaller loss reads as a positive change. A zero base yields 0.
func PercentChange(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return delta / math.Abs(base) * constants.PercentageMultiplier
}
