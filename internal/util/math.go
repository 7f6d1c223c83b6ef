package util

import (
	"math"
	"strconv"
)

// RoundTo rounds x to the given number of decimal digits. It goes through
// the decimal representation so large magnitudes do not overflow.
func RoundTo(x float64, digits int) float64 {
	if digits < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', digits, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
