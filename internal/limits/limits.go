// Package limits holds the closed-form claim-limit math: the hourly decay of
// an extended limit and the cost of buying a higher one.
package limits

import (
	"errors"
	"math"
	"time"
)

const (
	// MinLimit is the floor every limit decays back to.
	MinLimit = 10_000
	// MaxLimit is the asymptote of the cost curve; a limit can never be
	// bought all the way up to it.
	MaxLimit = 50_000_000
	// DecayPerHour is the hourly retention factor of an extended limit.
	DecayPerHour = 0.99
)

// Effective returns the time-decayed claim limit. limit is the raw table
// value (effective value × 10,000); extendedAt is the unix time of the last
// increase. Only whole elapsed hours count.
func Effective(limit int64, extendedAt int64, now time.Time) float64 {
	hours := math.Floor(float64(now.Unix()-extendedAt) / 3600)
	if hours < 0 {
		hours = 0
	}
	eff := float64(limit) / 10_000 * math.Pow(DecayPerHour, hours)
	return math.Max(MinLimit, eff)
}

// IncreaseCost returns the currency cost of raising the limit to target. The
// curve is near-zero at MinLimit and diverges toward MaxLimit, so capacity
// gets steeply more expensive the higher it goes.
func IncreaseCost(target float64) (float64, error) {
	if target < MinLimit {
		return 0, errors.New("target below minimum limit")
	}
	if target >= MaxLimit {
		return 0, errors.New("target at or above maximum limit")
	}
	const (
		minL = float64(MinLimit)
		maxL = float64(MaxLimit)
	)
	cost := maxL * maxL * (minL - target) / ((target - maxL) * (maxL - minL))
	return math.Ceil(cost), nil
}
