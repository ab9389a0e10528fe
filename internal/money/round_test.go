package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		name      string
		value     float64
		precision int
		want      float64
	}{
		{name: "already_rounded", value: 220, precision: 2, want: 220},
		{name: "binary_below_tie", value: 1.005, precision: 2, want: 1},
		{name: "binary_below_tie_2", value: 2.675, precision: 2, want: 2.67},
		{name: "exact_tie_rounds_up", value: 0.125, precision: 2, want: 0.13},
		{name: "negative_tie_rounds_away", value: -0.125, precision: 2, want: -0.13},
		{name: "float_drift", value: 0.1 + 0.2, precision: 2, want: 0.3},
		{name: "carry_into_whole", value: 99.999, precision: 2, want: 100},
		{name: "three_digits", value: 1.2346, precision: 3, want: 1.235},
		{name: "unset_precision_defaults_to_two", value: 1.23456, precision: 0, want: 1.23},
		{name: "negative_precision_defaults_to_two", value: 1.23456, precision: -4, want: 1.23},
		{name: "nan", value: math.NaN(), precision: 2, want: 0},
		{name: "inf", value: math.Inf(1), precision: 2, want: 0},
		{name: "tiny_negative_becomes_zero", value: -0.0001, precision: 2, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Round(tc.value, tc.precision))
		})
	}
}

func TestTaxer(t *testing.T) {
	assert.Equal(t, float64(36), Taxer(180, 20))
	assert.Equal(t, float64(20), Taxer(200, 10))
	assert.InDelta(t, 2.333, Taxer(33.33, 7), 1e-9)
	assert.Equal(t, float64(0), Taxer(100, math.NaN()))
	assert.Equal(t, float64(0), Taxer(math.Inf(-1), 10))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, float64(10), RoundCents(50*20/100.0))
	assert.InDelta(t, 2.33, RoundCents(2.3331), 1e-9)
	assert.Equal(t, float64(0), RoundCents(math.NaN()))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "10", FormatRate(10))
	assert.Equal(t, "5.5", FormatRate(5.5))
	assert.Equal(t, "0", FormatRate(math.NaN()))
}

func TestPrecision(t *testing.T) {
	assert.Equal(t, 2, Precision(0))
	assert.Equal(t, 3, Precision(3))
	assert.Equal(t, MaxPrecision, Precision(MaxPrecision))
	assert.Equal(t, MaxPrecision, Precision(1<<30))
}

func TestRoundCapsPrecision(t *testing.T) {
	assert.Equal(t, 1.2345678901, Round(1.23456789012345, 1<<30))
	assert.Equal(t, Round(1.23456789012345, MaxPrecision), Round(1.23456789012345, 64))
}
