// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips value to [min, max]
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// ClipInterval clips value to the interval i
func ClipInterval(value float64, i r1.Interval) float64 {
	return Clip(value, i.Min, i.Max)
}

// ArgMax returns the largest value in values along with the indices of
// every entry equal to it. It panics on an empty slice.
func ArgMax(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > max:
			max = values[i]
			indices = []int{i}
		case values[i] == max:
			indices = append(indices, i)
		}
	}
	return max, indices
}
