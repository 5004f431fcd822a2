package common

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := Reducer(values, func(acc float64, v float64) float64 { return acc + v }, 0.0)
	return sum / float64(len(values))
}

// Std returns the standard deviation of values with n in the denominator
// (population form). A single sample has deviation 0.
func Std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := Mean(values)
	sumSq := Reducer(values, func(acc float64, v float64) float64 {
		d := v - avg
		return acc + d*d
	}, 0.0)
	return math.Sqrt(sumSq / float64(len(values)))
}

// Round2 rounds to 2 decimal places, the precision baseline profiles are
// persisted with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
