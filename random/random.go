// Package random provides convenience draws on top of math/rand/v2:
// ranged numbers, probability trials and coin tosses.
package random

import (
	"errors"
	"math"
	"math/rand/v2"
)

// ErrEmptyRange is returned when a range's lower bound is not strictly
// below its upper bound.
var ErrEmptyRange = errors.New("random: empty range")

// ErrInvalidStep is returned by Rounded when the step is not strictly
// positive.
var ErrInvalidStep = errors.New("random: step must be positive")

// ErrInvalidProbability is returned by Probability when p lies outside
// [0, 1].
var ErrInvalidProbability = errors.New("random: probability outside [0, 1]")

// ErrInvalidLikelihood is returned by Likelihood when the chances do
// not fit in the total.
var ErrInvalidLikelihood = errors.New("random: chances outside [0, total]")

// Int64 returns a uniform draw from [min, max). It fails with
// ErrEmptyRange when min >= max.
func Int64(min, max int64) (int64, error) {
	if min >= max {
		return 0, ErrEmptyRange
	}
	return min + rand.Int64N(max-min), nil
}

// Float64 returns a uniform draw from [min, max). It fails with
// ErrEmptyRange when min >= max.
func Float64(min, max float64) (float64, error) {
	if min >= max {
		return 0, ErrEmptyRange
	}
	return min + rand.Float64()*(max-min), nil
}

// Rounded returns a uniform draw from [min, max) rounded to the
// nearest multiple of step. It fails with ErrInvalidStep when step is
// not strictly positive.
func Rounded(min, max, step float64) (float64, error) {
	if step <= 0 {
		return 0, ErrInvalidStep
	}
	v, err := Float64(min, max)
	if err != nil {
		return 0, err
	}
	return math.Round(v/step) * step, nil
}

// Unit returns a uniform draw from [0, 1).
func Unit() float64 {
	return rand.Float64()
}

// RelativeUnit returns a uniform draw from [-1, 1).
func RelativeUnit() float64 {
	return rand.Float64()*2 - 1
}

// Probability returns true with probability p. It fails with
// ErrInvalidProbability when p lies outside [0, 1]. A p of 0 never
// succeeds and a p of 1 always does.
func Probability(p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, ErrInvalidProbability
	}
	return rand.Float64() < p, nil
}

// Likelihood returns true with probability chances / total. It fails
// with ErrEmptyRange when total is not strictly positive and with
// ErrInvalidLikelihood when chances lie outside [0, total].
func Likelihood(chances, total int64) (bool, error) {
	if total <= 0 {
		return false, ErrEmptyRange
	}
	if chances < 0 || chances > total {
		return false, ErrInvalidLikelihood
	}
	return rand.Int64N(total) < chances, nil
}

// TossACoin returns true half of the time.
func TossACoin() bool {
	return rand.Int64N(2) == 0
}
