package fit

import "math"

// RoundHalfUp rounds to the nearest integer with halves going towards
// positive infinity, so -2.5 becomes -2 and 2.5 becomes 3. math.Round rounds
// halves away from zero, which would shift negative stem bases and deltas.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundToInt is RoundHalfUp converted to int.
func RoundToInt(x float64) int {
	return int(RoundHalfUp(x))
}
