// Package testutil provides shared test infrastructure for the NetSim
// simulator. It holds scripted probability sources used across sim/ and its
// sub-package tests; it does not import sim.
package testutil

import "testing"

// Sequence returns a generator yielding values in order, repeating the last
// one once exhausted. Panics on an empty list.
func Sequence(values ...float64) func() float64 {
	if len(values) == 0 {
		panic("Sequence: values must not be empty")
	}
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

// Constant returns a generator that always yields v.
func Constant(v float64) func() float64 {
	return func() float64 { return v }
}

// Counting wraps gen and reports how many values were drawn through *calls.
func Counting(gen func() float64, calls *int) func() float64 {
	return func() float64 {
		*calls++
		return gen()
	}
}

// AssertSumsToOne fails t when the weights do not sum to 1 within tol.
// An empty slice is accepted.
func AssertSumsToOne(t *testing.T, weights []float64, tol float64) {
	t.Helper()
	if len(weights) == 0 {
		return
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			t.Errorf("negative weight %v in %v", w, weights)
		}
		sum += w
	}
	if diff := sum - 1.0; diff > tol || diff < -tol {
		t.Errorf("weights %v sum to %.12f, want 1 ± %g", weights, sum, tol)
	}
}
