package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Array helpers shared by the conversion and coordinate code, built on gonum

// Linspace returns n evenly spaced values over [start, stop], endpoint included
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}
	out := floats.Span(make([]float64, n), start, stop)
	out[n-1] = stop
	return out
}

// Arange returns 0, 1, ..., n-1 as float64
func Arange(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Diff returns the first discrete difference of data
func Diff(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}
	out := make([]float64, len(data)-1)
	floats.SubTo(out, data[1:], data[:len(data)-1])
	return out
}

// ClampMin replaces every value below lo with lo, in place
func ClampMin(data []float64, lo float64) []float64 {
	for i, v := range data {
		if v < lo {
			data[i] = lo
		}
	}
	return data
}

// AllFinite reports whether data contains no NaN or Inf
func AllFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FiniteValues returns the finite entries of data in order
func FiniteValues(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// MinMax returns the smallest and largest values of data
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// FloorDiv is integer division rounding toward negative infinity
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod is the floor modulus, always in [0, b) for positive b
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
