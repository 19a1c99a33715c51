// Package mathx provides small numeric helpers and combinatorics
// enumerators that the standard math package does not cover.
package mathx

import (
	"errors"
	"math"
)

// ErrNegativeOperand is returned when an operation only defined for
// non-negative values receives a negative one.
var ErrNegativeOperand = errors.New("mathx: negative operand")

// ErrInvertedBounds is returned by Clamp when the lower bound exceeds
// the upper bound.
var ErrInvertedBounds = errors.New("mathx: lower bound exceeds upper bound")

// ordered covers the types Clamp can compare.
type ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Factorial returns n!. It fails with ErrNegativeOperand when n is
// negative. Results overflow int64 beyond n = 20.
func Factorial(n int64) (int64, error) {
	if n < 0 {
		return 0, ErrNegativeOperand
	}
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result, nil
}

// Clamp returns v constrained to the interval [lo, hi]. It fails with
// ErrInvertedBounds when lo > hi.
func Clamp[T ordered](v, lo, hi T) (T, error) {
	if lo > hi {
		var zero T
		return zero, ErrInvertedBounds
	}
	if v < lo {
		return lo, nil
	}
	if v > hi {
		return hi, nil
	}
	return v, nil
}

// RoundX returns v rounded half away from zero to the given number of
// decimal places. Negative place counts round to powers of ten.
func RoundX(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// Round2 returns v rounded to two decimal places.
func Round2(v float64) float64 {
	return RoundX(v, 2)
}
