// Package money holds the rounding rules shared by document calculations.
//
// Amounts are float64 on purpose: documents arrive from the API as JSON
// numbers and every rounding step below reproduces the exact results the
// rest of the platform already stores.
package money

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is used when a currency does not declare one.
const DefaultPrecision = 2

// MaxPrecision is the largest supported precision. Larger values are capped.
const MaxPrecision = 10

// guardDigits is how many digits past the target precision are inspected to
// tell a true half-way value from one that only looks like it.
const guardDigits = 30

// Precision normalizes a currency precision. Zero and negative values mean
// "not configured".
func Precision(precision int) int {
	if precision <= 0 {
		return DefaultPrecision
	}
	return min(precision, MaxPrecision)
}

// Finite returns 0 for NaN and infinities.
func Finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// Round rounds value to precision decimal digits, half away from zero,
// based on the exact binary value. 1.005 is stored as 1.00499... and rounds
// down, 0.125 is exact and rounds up.
func Round(value float64, precision int) float64 {
	value = Finite(value)
	if value == 0 {
		return 0
	}
	p := Precision(precision)

	negative := value < 0
	s := strconv.FormatFloat(math.Abs(value), 'f', p+guardDigits, 64)
	dot := strings.IndexByte(s, '.')
	digits := []byte(s[:dot] + s[dot+1:dot+1+p])
	if s[dot+1+p] >= '5' {
		digits = increment(digits)
	}

	whole := len(digits) - p
	out := string(digits[:whole]) + "." + string(digits[whole:])
	rounded, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0
	}
	if negative && rounded != 0 {
		rounded = -rounded
	}
	return rounded
}

// Taxer computes amount * rate% rounded to a tenth of a cent.
func Taxer(amount, rate float64) float64 {
	amount, rate = Finite(amount), Finite(rate)
	return Finite(jsRound(amount*(rate/100)*1000) / 10 / 100)
}

// RoundCents rounds to whole cents with Math.round semantics.
func RoundCents(value float64) float64 {
	return Finite(jsRound(Finite(value)*1000/10) / 100)
}

// FormatRate renders a rate in its shortest form: 10, 5.5, 7.25.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(Finite(rate), 'f', -1, 64)
}

// jsRound rounds half-way values towards positive infinity.
func jsRound(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

func increment(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] == '9' {
			digits[i] = '0'
			continue
		}
		digits[i]++
		return digits
	}
	return append([]byte{'1'}, digits...)
}
