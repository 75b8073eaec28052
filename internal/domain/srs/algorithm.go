// Package srs implements the spaced-repetition scheduler: a pure SM-2
// variant that maps an item's current interval and ease factor plus a
// recall quality score to the next interval and ease factor.
//
// The scheduler is deliberately narrow. It does not touch item status,
// confidence or timestamps; the lifecycle rules live in the domain
// package and consume this package's output.
package srs

import "math"

// nextInterval computes the new review interval in days.
//
// Failed recalls (quality below the pass threshold) reset the interval.
// Successful recalls walk the bootstrap steps 0 -> first -> second
// before the multiplicative formula interval * easeFactor applies.
// easeFactor here is the item's ORIGINAL ease factor; the ease factor
// update happens independently in nextEaseFactor.
func nextInterval(interval int, easeFactor float64, quality int, params *Params) int {
	if quality < params.PassThreshold {
		return params.FailedInterval
	}

	switch interval {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(interval) * easeFactor))
	}
}

// nextEaseFactor computes the new ease factor from the SM-2 update
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// floored at params.MinEaseFactor. There is no ceiling.
func nextEaseFactor(easeFactor float64, quality int, params *Params) float64 {
	q := float64(quality)
	ef := easeFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	return math.Max(params.MinEaseFactor, ef)
}
